package session_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowwed/emily/pkg/llm"
	"github.com/flowwed/emily/pkg/session"
)

var _ = Describe("InMemoryStore", func() {
	var (
		store *session.InMemoryStore
		ctx   context.Context
		key   session.Key
		seed  llm.Message
	)

	BeforeEach(func() {
		store = session.NewInMemoryStore()
		ctx = context.Background()
		key = session.Key{Token: "dev", Page: "Entry", SessionID: "default"}
		seed = llm.NewMessage(llm.RoleSystem, "preamble")
	})

	It("seeds a new history with the system preamble", func() {
		history, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())
		Expect(history).To(Equal([]llm.Message{seed}))
	})

	It("returns accumulated turns on repeated access for the same key", func() {
		history, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())

		history = append(history, llm.NewMessage(llm.RoleUser, "hello"))
		Expect(store.Put(ctx, key, history)).To(Succeed())

		again, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(HaveLen(2))
		Expect(again[1].Content).To(Equal("hello"))
	})

	It("does not reseed an existing history with a newer preamble", func() {
		_, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())

		again, err := store.GetOrCreate(ctx, key, llm.NewMessage(llm.RoleSystem, "newer"))
		Expect(err).NotTo(HaveOccurred())
		Expect(again[0].Content).To(Equal("preamble"))
	})

	It("keeps independent histories per page", func() {
		history, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())
		history = append(history, llm.NewMessage(llm.RoleUser, "hello"))
		Expect(store.Put(ctx, key, history)).To(Succeed())

		gallery := session.Key{Token: "dev", Page: "Gallery", SessionID: "default"}
		other, err := store.GetOrCreate(ctx, gallery, seed)
		Expect(err).NotTo(HaveOccurred())
		Expect(other).To(HaveLen(1))
	})

	Describe("Refresh", func() {
		It("replaces only the system preamble", func() {
			history, err := store.GetOrCreate(ctx, key, seed)
			Expect(err).NotTo(HaveOccurred())
			history = append(history, llm.NewMessage(llm.RoleUser, "hello"))
			Expect(store.Put(ctx, key, history)).To(Succeed())

			Expect(store.Refresh(ctx, key, "updated preamble")).To(Succeed())

			refreshed, err := store.GetOrCreate(ctx, key, seed)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed[0].Content).To(Equal("updated preamble"))
			Expect(refreshed[1].Content).To(Equal("hello"))
		})

		It("returns ErrNotFound for an unknown key", func() {
			err := store.Refresh(ctx, session.Key{Token: "x"}, "p")
			Expect(err).To(MatchError(session.ErrNotFound))
		})
	})

	It("evicts a history", func() {
		_, err := store.GetOrCreate(ctx, key, seed)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Evict(ctx, key)).To(Succeed())

		fresh, err := store.GetOrCreate(ctx, key, llm.NewMessage(llm.RoleSystem, "new"))
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh).To(HaveLen(1))
		Expect(fresh[0].Content).To(Equal("new"))
	})
})

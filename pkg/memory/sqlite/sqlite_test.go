package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowwed/emily/pkg/memory"
	"github.com/flowwed/emily/pkg/memory/sqlite"
)

var _ = Describe("Store", func() {
	var (
		store *sqlite.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = sqlite.NewStore(ctx, sqlite.Config{Path: ":memory:"})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("NewStore", func() {
		It("creates the database file on disk", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			s, err := sqlite.NewStore(ctx, sqlite.Config{Path: dbPath})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an empty path", func() {
			_, err := sqlite.NewStore(ctx, sqlite.Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Load", func() {
		It("reports not found for an unknown token", func() {
			doc, found, err := store.Load(ctx, "unknown")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
			Expect(doc.HasAny()).To(BeFalse())
		})
	})

	Describe("Save and Load", func() {
		It("round-trips a document", func() {
			saved := memory.Document{
				Profile: memory.Profile{Name: "Alice"},
				Wedding: memory.Wedding{
					Country:        "Italy",
					City:           "Florence",
					GuestCount:     80,
					VenueShortlist: []string{"Villa Cora", "Palazzo Vecchio"},
				},
			}
			Expect(store.Save(ctx, "couple42", saved)).To(Succeed())

			loaded, found, err := store.Load(ctx, "couple42")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(loaded.Equal(saved)).To(BeTrue())
		})

		It("overwrites an existing row on re-save", func() {
			Expect(store.Save(ctx, "couple42", memory.Document{
				Profile: memory.Profile{Name: "Alice"},
			})).To(Succeed())
			Expect(store.Save(ctx, "couple42", memory.Document{
				Profile: memory.Profile{Name: "Alice"},
				Wedding: memory.Wedding{Country: "Italy"},
			})).To(Succeed())

			loaded, found, err := store.Load(ctx, "couple42")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(loaded.Wedding.Country).To(Equal("Italy"))
		})

		It("keeps tokens independent", func() {
			Expect(store.Save(ctx, "a", memory.Document{Profile: memory.Profile{Name: "Alice"}})).To(Succeed())
			Expect(store.Save(ctx, "b", memory.Document{Profile: memory.Profile{Name: "Bob"}})).To(Succeed())

			docA, _, err := store.Load(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			docB, _, err := store.Load(ctx, "b")
			Expect(err).NotTo(HaveOccurred())

			Expect(docA.Profile.Name).To(Equal("Alice"))
			Expect(docB.Profile.Name).To(Equal("Bob"))
		})

		It("persists across reopen", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "persist.db")

			first, err := sqlite.NewStore(ctx, sqlite.Config{Path: dbPath})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Save(ctx, "couple42", memory.Document{
				Wedding: memory.Wedding{Country: "Greece"},
			})).To(Succeed())
			Expect(first.Close()).To(Succeed())

			second, err := sqlite.NewStore(ctx, sqlite.Config{Path: dbPath})
			Expect(err).NotTo(HaveOccurred())
			defer second.Close()

			loaded, found, err := second.Load(ctx, "couple42")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(loaded.Wedding.Country).To(Equal("Greece"))
		})
	})
})

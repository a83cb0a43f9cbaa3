package prompt_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowwed/emily/pkg/memory"
	"github.com/flowwed/emily/pkg/prompt"
)

var _ = Describe("Loader", func() {
	It("serves the embedded default when no path is given", func() {
		loader, err := prompt.NewLoader("", nil)
		Expect(err).NotTo(HaveOccurred())
		defer loader.Close()

		Expect(loader.Base()).To(ContainSubstring("You are Emily"))
	})

	It("reads an override file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prompt.txt")
		Expect(os.WriteFile(path, []byte("You are a test persona.\n"), 0o644)).To(Succeed())

		loader, err := prompt.NewLoader(path, nil)
		Expect(err).NotTo(HaveOccurred())
		defer loader.Close()

		Expect(loader.Base()).To(Equal("You are a test persona."))
	})

	It("hot-reloads when the override file changes", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prompt.txt")
		Expect(os.WriteFile(path, []byte("first"), 0o644)).To(Succeed())

		loader, err := prompt.NewLoader(path, nil)
		Expect(err).NotTo(HaveOccurred())
		defer loader.Close()

		Expect(os.WriteFile(path, []byte("second"), 0o644)).To(Succeed())
		Eventually(loader.Base).Should(Equal("second"))
	})

	It("fails when the override file does not exist", func() {
		_, err := prompt.NewLoader("/nonexistent/prompt.txt", nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Preamble", func() {
	It("names the current page", func() {
		p := prompt.Preamble("base", "Gallery", memory.Document{})
		Expect(p).To(HavePrefix("base"))
		Expect(p).To(ContainSubstring("'Gallery' page"))
	})

	It("omits the memory snapshot when nothing is known", func() {
		p := prompt.Preamble("base", "Entry", memory.Document{})
		Expect(p).NotTo(ContainSubstring("Known facts"))
	})

	It("appends the memory snapshot when facts are known", func() {
		doc := memory.Document{Profile: memory.Profile{Name: "Alice"}}
		p := prompt.Preamble("base", "Entry", doc)
		Expect(p).To(ContainSubstring("Known facts"))
		Expect(p).To(ContainSubstring(`"name":"Alice"`))
	})
})

package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = filepath.Join(GinkgoT().TempDir(), "receipts")
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create the storage directory", func() {
		Expect(tmpDir).To(BeADirectory())
	})

	Describe("Save", func() {
		var (
			name string
			key  string
			err  error
		)

		JustBeforeEach(func() {
			key, err = storage.Save(name, []byte("scan bytes"))
		})

		When("the name is a plain file name", func() {
			BeforeEach(func() {
				name = "abc_gs25.jpg"
			})

			It("should return the name as the key", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(Equal("abc_gs25.jpg"))
			})

			It("should write the file to disk", func() {
				Expect(filepath.Join(tmpDir, "abc_gs25.jpg")).To(BeAnExistingFile())
			})
		})

		When("the name tries to escape the directory", func() {
			BeforeEach(func() {
				name = "../../escape.jpg"
			})

			It("should keep the file inside the storage directory", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(Equal("escape.jpg"))
				Expect(filepath.Join(tmpDir, "escape.jpg")).To(BeAnExistingFile())
				Expect(filepath.Join(filepath.Dir(tmpDir), "escape.jpg")).NotTo(BeAnExistingFile())
			})
		})

		When("the name is empty", func() {
			BeforeEach(func() {
				name = ""
			})

			It("returns an error", func() {
				Expect(err).To(MatchError(ContainSubstring("invalid storage key")))
			})
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			It("should return its contents", func() {
				key, err := storage.Save("slip.png", []byte("slip"))
				Expect(err).NotTo(HaveOccurred())

				data, err := storage.Get(key)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("slip"))
			})
		})

		When("the file does not exist", func() {
			It("returns the error", func() {
				_, err := storage.Get("missing.png")
				Expect(err).To(MatchError(ContainSubstring("reading file")))
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			It("should remove it", func() {
				key, err := storage.Save("slip.png", []byte("slip"))
				Expect(err).NotTo(HaveOccurred())

				Expect(storage.Delete(key)).To(Succeed())
				_, statErr := os.Stat(filepath.Join(tmpDir, key))
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			})
		})

		When("the file does not exist", func() {
			It("returns the error", func() {
				Expect(storage.Delete("missing.png")).To(MatchError(ContainSubstring("deleting file")))
			})
		})
	})
})

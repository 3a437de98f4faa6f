package receipt_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/kr-receipts/internal/classify"
	"github.com/zombor/kr-receipts/internal/receipt"
)

const martText = `이마트 성수점
사업자 220-81-62517
2025-10-16 14:22
과세물품가액 10,000
부가세 1,000
면세물품 3,000
합계 14,000`

type fixedScanner struct {
	text string
}

func (s *fixedScanner) ExtractText(imageData []byte, contentType string) (string, error) {
	return s.text, nil
}

func (s *fixedScanner) Close() error {
	return nil
}

var _ = Describe("Integration", func() {
	var (
		tempDir  string
		db       *receipt.BoltDB
		server   *receipt.Server
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "kr-receipts-test-*")
		Expect(err).NotTo(HaveOccurred())

		db, err = receipt.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		store, err := receipt.NewLocalStorage(filepath.Join(tempDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())

		service := receipt.NewService(db, &fixedScanner{text: martText}, store)
		server = receipt.NewServer(service, receipt.BasicAuth{})
		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		if ghServer != nil {
			ghServer.Close()
		}
		if db != nil {
			db.Close()
		}
		if tempDir != "" {
			os.RemoveAll(tempDir)
		}
	})

	It("should upload, classify, list, download and delete a receipt", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // upload
			server.ServeHTTP, // list
			server.ServeHTTP, // file
			server.ServeHTTP, // delete
			server.ServeHTTP, // list again
		)

		fileContent := []byte("%PDF-1.4 fake scan")
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "이마트 영수증.pdf")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(fileContent)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest(http.MethodPost, ghServer.URL()+"/api/receipts", body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))

		var created receipt.Receipt
		Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
		resp.Body.Close()

		Expect(created.ID).NotTo(BeEmpty())
		Expect(created.Type).To(Equal(classify.MartItemized))
		Expect(created.Confidence).To(Equal(0.85))
		Expect(created.BusinessNumber).To(Equal("220-81-62517"))
		Expect(created.Date.String()).To(Equal("2025-10-16"))
		Expect(created.ContentType).To(Equal("application/pdf"))
		Expect(filepath.Join(tempDir, "receipts", created.Filename)).To(BeAnExistingFile())

		resp, err = http.Get(ghServer.URL() + "/api/receipts?type=MART_ITEMIZED")
		Expect(err).NotTo(HaveOccurred())
		var listed []receipt.Receipt
		Expect(json.NewDecoder(resp.Body).Decode(&listed)).To(Succeed())
		resp.Body.Close()
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].ID).To(Equal(created.ID))

		resp, err = http.Get(ghServer.URL() + "/api/receipts/" + created.ID + "/file")
		Expect(err).NotTo(HaveOccurred())
		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(data).To(Equal(fileContent))

		req, err = http.NewRequest(http.MethodDelete, ghServer.URL()+"/api/receipts/"+created.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		Expect(filepath.Join(tempDir, "receipts", created.Filename)).NotTo(BeAnExistingFile())

		resp, err = http.Get(ghServer.URL() + "/api/receipts")
		Expect(err).NotTo(HaveOccurred())
		listed = nil
		Expect(json.NewDecoder(resp.Body).Decode(&listed)).To(Succeed())
		resp.Body.Close()
		Expect(listed).To(BeEmpty())
	})
})

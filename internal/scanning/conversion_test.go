package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

var _ = Describe("detectKind", func() {
	heicHeader := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)

	DescribeTable("choosing a decoder",
		func(data []byte, contentType string, expected documentKind) {
			Expect(detectKind(data, contentType)).To(Equal(expected))
		},
		Entry("PDF by magic bytes", []byte("%PDF-1.4 ..."), "application/octet-stream", kindPDF),
		Entry("PDF by MIME type", []byte("data"), " Application/PDF ", kindPDF),
		Entry("HEIC by magic bytes despite JPEG label", heicHeader, "image/jpeg", kindHEIC),
		Entry("HEIF by MIME type", []byte("data"), "image/heif", kindHEIC),
		Entry("PNG by magic bytes", []byte("\x89PNG\r\n\x1a\nrest"), "", kindPNG),
		Entry("anything else", []byte("data"), "image/jpeg", kindImage),
	)
})

var _ = Describe("hasHEICSignature", func() {
	It("should reject short data", func() {
		Expect(hasHEICSignature([]byte("ftyp"))).To(BeFalse())
	})

	It("should reject other ftyp brands", func() {
		Expect(hasHEICSignature(append([]byte{0, 0, 0, 24}, []byte("ftypisom0000")...))).To(BeFalse())
	})

	It("should accept mif1", func() {
		Expect(hasHEICSignature(append([]byte{0, 0, 0, 24}, []byte("ftypmif10000")...))).To(BeTrue())
	})
})

var _ = Describe("toPNG", func() {
	When("the upload is already PNG", func() {
		It("should return the data unchanged", func() {
			var buf bytes.Buffer
			Expect(png.Encode(&buf, sampleImage())).To(Succeed())

			out, err := toPNG(buf.Bytes(), "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(buf.Bytes()))
		})
	})

	When("the upload is JPEG", func() {
		It("should re-encode it as PNG", func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, sampleImage(), nil)).To(Succeed())

			out, err := toPNG(buf.Bytes(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			_, format, err := image.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
		})
	})

	When("the upload is not an image", func() {
		It("should return an unsupported format error", func() {
			_, err := toPNG([]byte("definitely not an image"), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("unsupported image format")))
		})
	})
})

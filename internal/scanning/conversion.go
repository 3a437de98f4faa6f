package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// documentKind is the decoder a receipt upload needs
type documentKind int

const (
	kindPNG documentKind = iota
	kindPDF
	kindHEIC
	kindImage
)

// heicBrands are the ftyp brands used by HEIC/HEIF files
var heicBrands = map[string]bool{
	"heic": true,
	"heix": true,
	"heif": true,
	"mif1": true,
	"msf1": true,
}

// detectKind picks a decoder from the declared MIME type and the file's magic bytes.
// Phones often send HEIC photos labelled as image/jpeg, so magic bytes win.
func detectKind(data []byte, contentType string) documentKind {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")) || mimeType == "application/pdf":
		return kindPDF
	case hasHEICSignature(data) || strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif"):
		return kindHEIC
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return kindPNG
	default:
		return kindImage
	}
}

// hasHEICSignature checks for an ftyp box with a HEIC-family brand at offset 4
func hasHEICSignature(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	return heicBrands[string(data[8:12])]
}

// toPNG renders a receipt upload as a single PNG image for the vision model
func toPNG(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch detectKind(data, contentType) {
	case kindPNG:
		return data, nil
	case kindPDF:
		img, err = renderFirstPage(data)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
	case kindHEIC:
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") {
				return nil, fmt.Errorf("unsupported image format (supported: JPEG, PNG, GIF, HEIC, HEIF, PDF): %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// renderFirstPage rasterises page one of a PDF; receipts are single page
func renderFirstPage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

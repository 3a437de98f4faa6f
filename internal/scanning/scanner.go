// Package scanning turns receipt images and PDFs into plain text using a
// vision-capable model.
package scanning

// Scanner extracts the printed text from a receipt document
type Scanner interface {
	// ExtractText transcribes the text of a receipt image or PDF
	ExtractText(imageData []byte, contentType string) (string, error)

	// Close releases any resources held by the scanner
	Close() error
}

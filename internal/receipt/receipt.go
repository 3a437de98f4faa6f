package receipt

import (
	"time"

	"github.com/zombor/kr-receipts/internal/bizno"
	"github.com/zombor/kr-receipts/internal/classify"
	"github.com/zombor/kr-receipts/internal/dates"
)

// Receipt is a scanned receipt with the fields extracted from its text
type Receipt struct {
	ID             string               `json:"id"`
	Type           classify.ReceiptType `json:"type"`
	Confidence     float64              `json:"confidence"`
	Scores         classify.Scores      `json:"scores"`
	BusinessNumber string               `json:"business_number,omitempty"`
	Date           dates.Date           `json:"date"`
	Text           string               `json:"text"`
	Filename       string               `json:"filename"`
	ContentType    string               `json:"content_type"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Analysis is what can be learned from receipt text without storing anything
type Analysis struct {
	Type           classify.ReceiptType `json:"type"`
	Confidence     float64              `json:"confidence"`
	Scores         classify.Scores      `json:"scores"`
	BusinessNumber string               `json:"business_number,omitempty"`
	Date           dates.Date           `json:"date"`
}

// Analyze classifies text and pulls out its business number and date
func Analyze(text string) Analysis {
	result := classify.Classify(text)
	a := Analysis{
		Type:       result.Type,
		Confidence: result.Confidence,
		Scores:     result.Scores,
	}
	if n, ok := bizno.Find(text); ok {
		a.BusinessNumber = n
	}
	if d, ok := dates.Find(text); ok {
		a.Date = d
	}
	return a
}

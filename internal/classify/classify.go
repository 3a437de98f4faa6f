// Package classify assigns a Korean retail receipt subtype to OCR text.
package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReceiptType identifies the layout family a receipt belongs to
type ReceiptType string

const (
	CoupangApp      ReceiptType = "COUPANG_APP"
	CoupangCard     ReceiptType = "COUPANG_CARD"
	Convenience     ReceiptType = "CONVENIENCE"
	MartItemized    ReceiptType = "MART_ITEMIZED"
	CardSlipGeneric ReceiptType = "CARD_SLIP_GENERIC"
	Unknown         ReceiptType = "UNKNOWN"
)

const (
	unknownConfidence    = 0.10
	unresolvedConfidence = 0.20
	appConfidence        = 0.95
)

// Scores holds the per-group signal scores computed for a piece of text
type Scores struct {
	CoupangApp  int `json:"coupang_app"`
	CoupangCard int `json:"coupang_card"`
	Convenience int `json:"convenience"`
	Mart        int `json:"mart"`
	Slip        int `json:"slip"`
}

// Result is the verdict for a piece of text
type Result struct {
	Type       ReceiptType `json:"type"`
	Confidence float64     `json:"confidence"`
	Scores     Scores      `json:"scores"`
}

// Classify scores text against every signal group and returns the verdict.
// It never fails; text with no recognised markers is UNKNOWN.
func Classify(text string) Result {
	s := Score(text)
	r := Decide(s)
	r.Scores = s
	return r
}

// Score computes the five signal group scores for text
func Score(text string) Scores {
	in := newInput(text)
	return Scores{
		CoupangApp:  in.score(coupangAppRules),
		CoupangCard: in.score(coupangCardRules),
		Convenience: in.score(convenienceRules),
		Mart:        in.score(martRules),
		Slip:        in.score(slipRules),
	}
}

// Decide applies the priority and tie-break order to precomputed scores
func Decide(s Scores) Result {
	if s.CoupangApp >= coupangAppBonus {
		return Result{Type: CoupangApp, Confidence: appConfidence}
	}

	// Tie-break order: first entry whose score equals best wins.
	ranked := []struct {
		typ   ReceiptType
		score int
	}{
		{Convenience, s.Convenience},
		{CoupangCard, s.CoupangCard},
		{MartItemized, s.Mart},
		{CardSlipGeneric, s.Slip},
	}

	best := 0
	for _, r := range ranked {
		if r.score > best {
			best = r.score
		}
	}
	if best <= 0 {
		return Result{Type: Unknown, Confidence: unknownConfidence}
	}

	for _, r := range ranked {
		if r.score == best {
			return Result{Type: r.typ, Confidence: confidenceOf(best)}
		}
	}
	return Result{Type: Unknown, Confidence: unresolvedConfidence}
}

// confidenceOf buckets a winning score into a coarse certainty value
func confidenceOf(score int) float64 {
	switch {
	case score >= 10:
		return 0.95
	case score >= 8:
		return 0.85
	case score >= 6:
		return 0.75
	case score >= 4:
		return 0.60
	default:
		return 0.45
	}
}

// input carries the raw text and its upper-cased form
type input struct {
	raw   string
	upper string
}

func newInput(text string) input {
	raw := norm.NFC.String(text)
	return input{raw: raw, upper: strings.ToUpper(raw)}
}

func (in input) score(rules []rule) int {
	total := 0
	for _, r := range rules {
		if r.match(in) {
			total += r.weight
		}
	}
	return total
}

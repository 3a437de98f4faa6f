// Package dates parses the date formats printed on Korean receipts.
//
// Two-digit years always resolve to 2000-2099: "25.10.16." is 2025-10-16 and
// "99-01-01" is 2099-01-01. The window is fixed rather than relative to the
// current year so that parsing stays a pure function of its input.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrEmptyInput is returned when the input is blank
	ErrEmptyInput = errors.New("empty date input")

	// ErrUnsupportedFormat is returned when no accepted layout matches the input
	ErrUnsupportedFormat = errors.New("unsupported date format")
)

// twoDigitYearBase is the century two-digit years are placed in
const twoDigitYearBase = 2000

type layout struct {
	value   string
	shortYr bool
}

// layouts are tried in order; the first exact match wins
var layouts = []layout{
	{"2006-01-02", false},
	{"2006/01/02", false},
	{"2006.01.02", false},
	{"2006.01.02.", false},
	{"06-01-02", true},
	{"06/01/02", true},
	{"06.01.02", true},
	{"06.01.02.", true},
}

// Date is a calendar date without a time component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse trims text and matches it against the accepted layouts
func Parse(text string) (Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Date{}, ErrEmptyInput
	}

	for _, l := range layouts {
		t, err := time.Parse(l.value, text)
		if err != nil {
			continue
		}
		year := t.Year()
		if l.shortYr {
			year = twoDigitYearBase + year%100
		}
		return Date{Year: year, Month: t.Month(), Day: t.Day()}, nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, text)
}

// candidatePattern finds date-shaped tokens; Parse decides whether they are real dates
var candidatePattern = regexp.MustCompile(`(?:^|\D)(\d{4}[-/.]\d{2}[-/.]\d{2}\.?|\d{2}[-/.]\d{2}[-/.]\d{2}\.?)`)

// Find returns the first date in text that Parse accepts
func Find(text string) (Date, bool) {
	for _, loc := range candidatePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		if end < len(text) && text[end] >= '0' && text[end] <= '9' {
			continue
		}
		if d, err := Parse(text[start:end]); err == nil {
			return d, true
		}
	}
	return Date{}, false
}

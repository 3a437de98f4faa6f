// Package bizno validates and normalizes Korean business registration numbers
// (사업자등록번호).
package bizno

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidFormat is returned when the input does not reduce to exactly 10 digits
	ErrInvalidFormat = errors.New("invalid business number format")

	// ErrInvalidChecksum is returned when the 10 digits fail the check digit test
	ErrInvalidChecksum = errors.New("invalid business number checksum")
)

const numDigits = 10

var weights = [9]int{1, 3, 7, 1, 3, 7, 1, 3, 5}

// candidatePattern matches 3-2-5 digit groups joined by a hyphen, a space or nothing
var candidatePattern = regexp.MustCompile(`(?:^|\D)(\d{3}[- ]?\d{2}[- ]?\d{5})`)

// Normalize extracts the digits of raw, checks them and returns the canonical
// "XXX-XX-XXXXX" form.
func Normalize(raw string) (string, error) {
	d := digits(raw)
	if len(d) != numDigits {
		return "", fmt.Errorf("%w: expected %d digits, got %d", ErrInvalidFormat, numDigits, len(d))
	}
	if !checksumOK(d) {
		return "", fmt.Errorf("%w: %s", ErrInvalidChecksum, format(d))
	}
	return format(d), nil
}

// IsValid reports whether raw is a well-formed business number with a correct check digit
func IsValid(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	d := digits(raw)
	return len(d) == numDigits && checksumOK(d)
}

// Find returns the canonical form of the first valid business number in text
func Find(text string) (string, bool) {
	for _, loc := range candidatePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		if end < len(text) && text[end] >= '0' && text[end] <= '9' {
			continue
		}
		if n, err := Normalize(text[start:end]); err == nil {
			return n, true
		}
	}
	return "", false
}

// checkDigit computes the 10th digit from the first nine digits in d
func checkDigit(d []int) int {
	sum := 0
	for i, w := range weights {
		sum += d[i] * w
	}
	sum += d[8] * 5 / 10
	return (10 - sum%10) % 10
}

func checksumOK(d []int) bool {
	return checkDigit(d) == d[9]
}

func digits(raw string) []int {
	d := make([]int, 0, numDigits)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			d = append(d, int(r-'0'))
		}
	}
	return d
}

func format(d []int) string {
	var b strings.Builder
	for i, n := range d {
		if i == 3 || i == 5 {
			b.WriteByte('-')
		}
		b.WriteByte(byte('0' + n))
	}
	return b.String()
}

package scanning

import (
	"errors"
	"strings"
)

// ErrNoText is returned when the model produced no usable transcript
var ErrNoText = errors.New("no text found in document")

// transcribePrompt is shared by every provider
const transcribePrompt = `You are reading a Korean retail receipt, card slip or payment screenshot.
Transcribe every piece of printed text exactly as it appears, top to bottom.

Rules:
- Keep the original language. Do not translate Korean text.
- Keep one printed line per output line.
- Keep digits, hyphens, asterisks, dots and slashes exactly as printed, including masked card numbers such as 1234-****-****-5678.
- Do not summarise, correct, reorder or explain anything.
- Do not use markdown code blocks.
- If the document contains no text, return an empty response.`

// noTextMarkers are replies models give instead of an empty response
var noTextMarkers = []string{
	"NO TEXT",
	"텍스트가 없습니다",
}

// cleanTranscript strips code fences and stray whitespace from a model reply
func cleanTranscript(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		// Drop the opening fence and its language tag
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		out = append(out, line)
	}
	text = strings.TrimSpace(strings.Join(out, "\n"))

	if text == "" {
		return "", ErrNoText
	}
	upper := strings.ToUpper(text)
	for _, m := range noTextMarkers {
		if strings.TrimSuffix(upper, ".") == m {
			return "", ErrNoText
		}
	}
	return text, nil
}

// Package display normalizes assistant replies for a small two-line screen
// and renders them.
package display

import (
	"strings"
	"unicode/utf8"
)

// MaxDetail is the character budget of the detail line.
const MaxDetail = 200

const ellipsis = "..."

// Format normalizes text for the detail line: newlines become spaces, runs
// of spaces collapse to one, and anything past MaxDetail characters is cut
// to 197 plus an ellipsis. The budget counts runes, not bytes, so a
// multi-byte character is never split. Applying Format to its own output is
// a no-op.
func Format(text string) string {
	out := strings.ReplaceAll(text, "\r", " ")
	out = strings.ReplaceAll(out, "\n", " ")

	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}

	if utf8.RuneCountInString(out) > MaxDetail {
		runes := []rune(out)
		out = string(runes[:MaxDetail-len(ellipsis)]) + ellipsis
	}
	return out
}

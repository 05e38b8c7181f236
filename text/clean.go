package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean normalizes extracted text: compatibility characters such as
// ligatures are decomposed (NFKC), runs of whitespace inside a line collapse
// to one space, line breaks are kept, and the result is trimmed.
func Clean(s string) string {
	s = norm.NFKC.String(s)
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

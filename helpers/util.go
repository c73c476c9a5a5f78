package helpers

import (
	"strings"
	"unicode"
)

// SanitizeFilename keeps only letters, digits and hyphens of a product title
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

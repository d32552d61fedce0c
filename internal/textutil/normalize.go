// Package textutil normalizes the free-form text every other component
// consumes: entity decoding, Unicode canonicalization, whitespace cleanup.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize decodes HTML/XML entities, applies NFKC, drops non-printable
// control characters (newline and tab survive), collapses whitespace runs
// to single spaces, and trims. Pure and total: empty in, empty out.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))
}

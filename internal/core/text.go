package core

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	parenSplit = regexp.MustCompile(`[()]`)
	integer    = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

// Clean drops parenthesised qualifiers from an episode title but keeps
// numeric ones, so "Pilot (1)" stays "Pilot (1)" while "Pilot (Director's Cut)"
// becomes "Pilot". Only the first two parentheses split the title.
func Clean(title string) string {
	parts := parenSplit.Split(title, 3)
	value := strings.TrimSpace(parts[0])

	for _, part := range parts {
		number := strings.TrimSpace(part)
		if !integer.MatchString(number) {
			continue
		}
		if value != number {
			value += " (" + number + ")"
		}
	}
	return value
}

// Prepare reduces s to ASCII letters, digits and spaces, lowercased. Other
// characters are removed, not transliterated.
func Prepare(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// Similarity is the Ratcliff/Obershelp ratio of a and b compared character
// by character, in [0, 1].
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

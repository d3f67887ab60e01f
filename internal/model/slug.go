package model

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify builds a URL slug from an English title. Titles that reduce to
// nothing (e.g. fully Devanagari input) fall back to a random slug.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return uuid.New().String()
	}
	return slug
}

// SPDX-License-Identifier: MIT

// Package fsutil provides filename sanitization and work-directory
// housekeeping for materialized audio artifacts.
package fsutil

import (
	"strings"
	"unicode"
)

// maxTitleLen caps the human-friendly part of an artifact filename.
const maxTitleLen = 30

// SanitizeTitle reduces a video title to a filesystem-safe filename stem:
// alphanumerics and spaces only, trimmed, capped at 30 characters, spaces
// replaced with underscores. Returns "" when nothing safe remains.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimRight(b.String(), " ")
	// Cap counts runes, not bytes; a byte slice could split a multibyte
	// character and produce an invalid-UTF-8 filename.
	if runes := []rune(s); len(runes) > maxTitleLen {
		s = strings.TrimRight(string(runes[:maxTitleLen]), " ")
	}
	return strings.ReplaceAll(s, " ", "_")
}

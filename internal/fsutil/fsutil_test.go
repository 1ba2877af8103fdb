// SPDX-License-Identifier: MIT

package fsutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "My Song", "My_Song"},
		{"special characters dropped", "Song: The Remix (Official)!", "Song_The_Remix_Official"},
		{"slashes dropped", "a/b\\c", "abc"},
		{"capped at 30", "This title is definitely much longer than thirty characters", "This_title_is_definitely_much"},
		{"trailing spaces trimmed", "Title   ", "Title"},
		{"only special characters", "!!!***///", ""},
		{"empty", "", ""},
		{"digits kept", "Top 10 Hits 2024", "Top_10_Hits_2024"},
		{"multibyte kept", "日本の歌", "日本の歌"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.title))
		})
	}
}

func TestSanitizeTitleTruncatesOnRuneBoundary(t *testing.T) {
	got := SanitizeTitle("a" + strings.Repeat("日", 40))
	assert.True(t, utf8.ValidString(got), "truncation must not split a multibyte rune")
	assert.Equal(t, "a"+strings.Repeat("日", 29), got)
	assert.Equal(t, maxTitleLen, utf8.RuneCountInString(got))
}

package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase converts a token to title case for display labels
// (e.g. "movie" -> "Movie"). Already-mixed-case input is left alone.
func TitleCase(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if token != strings.ToLower(token) {
		return token
	}
	return cases.Title(language.Und).String(token)
}

package store

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SlugToName derives a display name from a slug: split on hyphens and
// underscores, title-case each token, rejoin with spaces. So
// "software-engineering" becomes "Software Engineering".
//
// This is a heuristic used only as a fallback label when the review engine
// auto-creates hierarchy nodes — it makes no attempt at acronym casing.
func SlugToName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	// Caser values are stateful, so one is built per call.
	caser := cases.Title(language.English)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

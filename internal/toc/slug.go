package toc

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SlugRegistry hands out anchor identifiers that are unique within one
// document. Create one per document.
type SlugRegistry struct {
	seen map[string]int
}

// NewSlugRegistry returns an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{seen: make(map[string]int)}
}

// Resolve converts heading text into an anchor. The first occurrence of a
// slug is returned as is; repeats get "-1", "-2", ... appended.
func (r *SlugRegistry) Resolve(text string) string {
	slug := Slugify(text)

	count, seen := r.seen[slug]
	if !seen {
		r.seen[slug] = 0
		return slug
	}

	count++
	r.seen[slug] = count
	return slug + "-" + strconv.Itoa(count)
}

// Slugify lower-cases text, keeps letters and digits, turns every space and
// hyphen into a hyphen and drops everything else.
func Slugify(text string) string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			b.WriteRune(r)
		case r == ' ', r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}

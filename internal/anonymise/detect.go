package anonymise

import (
	"regexp"
	"strings"
)

// identifierPattern prefers the spaced form (letters, a space or a spaced
// hyphen, then digits) over the compact letters-digits-letters form. Letter
// case plays no part, so "abc - 124" and "ABC124" share a key. Bare digit runs
// are candidates too, and a word directly followed by a number ("pump 3") is
// taken as one identifier.
var identifierPattern = regexp.MustCompile(`\b(?:[A-Za-z]+(?: | ?- ?)\d+[A-Za-z]*|[A-Za-z]*\d+[A-Za-z]*)\b`)

// Span is one detected identifier in a text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Key   string `json:"key"`
}

// Detect returns the identifier spans of text, left to right and
// non-overlapping.
func Detect(text string) []Span {
	locs := identifierPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		surface := text[loc[0]:loc[1]]
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Text:  surface,
			Key:   CanonicalKey(surface),
		})
	}
	return spans
}

// CanonicalKey strips whitespace and hyphens and lower-cases the identifier.
// Structurally different identifiers that collapse to the same key are
// treated as one asset.
func CanonicalKey(surface string) string {
	var b strings.Builder
	b.Grow(len(surface))
	for _, r := range surface {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Substitution records one replaced identifier so it can be reversed later.
type Substitution struct {
	Span  string `json:"span"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Resolver hands out the label for a canonical key.
type Resolver interface {
	Resolve(key string) string
}

// Replace swaps every span in text for its label and leaves all other text
// untouched.
func Replace(text string, spans []Span, r Resolver) (string, []Substitution) {
	return ReplaceFunc(text, spans, r, nil)
}

// ReplaceFunc is Replace with gap applied to every stretch of text between
// identifiers. A nil gap keeps the text as is.
func ReplaceFunc(text string, spans []Span, r Resolver, gap func(string) string) (string, []Substitution) {
	if gap == nil {
		gap = func(s string) string { return s }
	}
	if len(spans) == 0 {
		return gap(text), nil
	}

	var b strings.Builder
	b.Grow(len(text))
	subs := make([]Substitution, 0, len(spans))
	prev := 0
	for _, span := range spans {
		b.WriteString(gap(text[prev:span.Start]))
		label := r.Resolve(span.Key)
		b.WriteString(label)
		subs = append(subs, Substitution{Span: span.Text, Key: span.Key, Label: label})
		prev = span.End
	}
	b.WriteString(gap(text[prev:]))
	return b.String(), subs
}

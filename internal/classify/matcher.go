package classify

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Matcher reports whether a detected language belongs to a configured set
// of executable languages. Comparison is collation-based and loose: case,
// diacritics and width differences are ignored, so "Python" matches
// "python" and "élan" matches "elan".
type Matcher struct {
	collator *collate.Collator
	entries  []string
}

// NewMatcher creates a matcher over the given executable languages. A nil
// or empty list matches nothing.
func NewMatcher(executable []string) *Matcher {
	return &Matcher{
		collator: collate.New(language.Und, collate.Loose),
		entries:  append([]string(nil), executable...),
	}
}

// Match returns true when lang loosely equals one configured entry. The
// empty language never matches.
func (m *Matcher) Match(lang string) bool {
	if lang == "" {
		return false
	}
	for _, e := range m.entries {
		if m.collator.CompareString(e, lang) == 0 {
			return true
		}
	}
	return false
}

// Entries returns a copy of the configured language list.
func (m *Matcher) Entries() []string {
	return append([]string(nil), m.entries...)
}

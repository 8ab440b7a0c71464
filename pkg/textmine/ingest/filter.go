package ingest

import "github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"

// DefaultMinTokenLen drops single-letter tokens from frequency output.
// Single letters carry no meaning in the term cloud; the cutoff is a
// documented policy, adjustable per Filter.
const DefaultMinTokenLen = 2

// Filter passes through tokens that are not stopwords and not shorter
// than MinTokenLen. It is a pure function of (tokens, stoplist): the
// stoplist is never mutated.
type Filter struct {
	stops *stoplist.Set

	// MinTokenLen is the minimum token length (in runes) to keep.
	MinTokenLen int
}

// NewFilter creates a filter over the given stopword set.
func NewFilter(stops *stoplist.Set) *Filter {
	if stops == nil {
		stops = stoplist.New(nil)
	}
	return &Filter{stops: stops, MinTokenLen: DefaultMinTokenLen}
}

// Apply returns the tokens that survive stopword and length filtering,
// preserving order.
func (f *Filter) Apply(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if f.Keep(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Keep reports whether a single token survives filtering.
func (f *Filter) Keep(token string) bool {
	if len([]rune(token)) < f.MinTokenLen {
		return false
	}
	return !f.stops.Contains(token)
}

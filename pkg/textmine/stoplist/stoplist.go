// Package stoplist provides the stopword set used to filter term
// frequencies. The set is built once per run and never mutated by the
// aggregators, so alternate language or domain lists can be swapped in
// through configuration without touching the extraction code.
package stoplist

import (
	"sort"
	"strings"
)

// Set is an immutable, case-insensitive stopword set.
type Set struct {
	terms map[string]struct{}
}

// New builds a set from the given terms. Terms are lowercased and trimmed;
// empty entries and duplicates are ignored.
func New(terms []string) *Set {
	m := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		m[t] = struct{}{}
	}
	return &Set{terms: m}
}

// Contains reports whether the lowercase form of word is in the set.
func (s *Set) Contains(word string) bool {
	_, ok := s.terms[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct terms.
func (s *Set) Len() int {
	return len(s.terms)
}

// Terms returns all terms in sorted order.
func (s *Set) Terms() []string {
	out := make([]string, 0, len(s.terms))
	for t := range s.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Dutch returns the built-in Dutch stopword set covering the function
// words common in nursing report free text.
func Dutch() *Set {
	return New([]string{
		"de", "het", "en", "een", "in", "van", "met", "op", "te", "dat", "die",
		"is", "was", "bij", "als", "maar", "ook", "niet", "wel", "om", "voor",
		"naar", "uit", "aan", "door", "tot", "over", "onder", "hij", "zij", "ze",
		"hun", "zijn", "haar", "we", "wij", "jij", "je", "u", "ik",
	})
}

package aggregate

import (
	"sort"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/ingest"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
)

// TermCount is one entry of the frequency table.
type TermCount struct {
	Term  string
	Count int
}

// TermFrequencyTable maps normalized terms to occurrence counts and
// remembers each term's first-seen position in the corpus, which breaks
// ties deterministically when selecting the most frequent terms.
type TermFrequencyTable struct {
	counts map[string]int
	order  []string
}

// NewTermFrequencyTable returns an empty table.
func NewTermFrequencyTable() *TermFrequencyTable {
	return &TermFrequencyTable{counts: make(map[string]int)}
}

// Add counts one occurrence of term.
func (t *TermFrequencyTable) Add(term string) {
	if term == "" {
		return
	}
	if _, ok := t.counts[term]; !ok {
		t.order = append(t.order, term)
	}
	t.counts[term]++
}

// Count returns the occurrence count for term, zero if absent.
func (t *TermFrequencyTable) Count(term string) int {
	return t.counts[term]
}

// Len returns the number of distinct terms.
func (t *TermFrequencyTable) Len() int {
	return len(t.order)
}

// Terms returns all entries in first-seen corpus order.
func (t *TermFrequencyTable) Terms() []TermCount {
	out := make([]TermCount, len(t.order))
	for i, term := range t.order {
		out[i] = TermCount{Term: term, Count: t.counts[term]}
	}
	return out
}

// Top returns the n most frequent terms, count descending. Ties keep
// first-seen corpus order, so identical input always yields identical
// output. n <= 0 or n > Len returns everything.
func (t *TermFrequencyTable) Top(n int) []TermCount {
	all := t.Terms()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// AggregateFrequencies tokenizes and filters every record's text and
// counts the surviving terms across the whole corpus. Patient ids and
// keyword configuration are deliberately not consulted: the table is a
// pure function of the free-text column.
func AggregateFrequencies(records []source.Record, tok *ingest.Tokenizer, filter *ingest.Filter) *TermFrequencyTable {
	table := NewTermFrequencyTable()
	for _, rec := range records {
		for _, term := range filter.Apply(tok.Tokenize(rec.Text)) {
			table.Add(term)
		}
	}
	return table
}

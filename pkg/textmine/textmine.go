// Package textmine extracts keyword occurrences and term frequencies from
// free-text clinical notes. It ties the tokenizer, stopword filter,
// keyword matcher and the two aggregators together behind one facade.
package textmine

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/aggregate"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/ingest"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
)

// Options configures a Miner for one run.
type Options struct {
	// Keywords is the ordered, comma-split keyword list as entered.
	Keywords []string
	// Mode applies to all keywords uniformly.
	Mode match.Mode
	// Stopwords replaces the built-in Dutch list when non-nil.
	Stopwords *stoplist.Set
	// DigitsAsSeparators makes the tokenizer treat digits as separators.
	DigitsAsSeparators bool
	// MinTokenLen overrides the frequency filter's length cutoff when > 0.
	MinTokenLen int
	// Store, when set, persists each run under a fresh ULID.
	Store store.Store
}

// Miner runs keyword extraction and frequency aggregation over records.
type Miner struct {
	keywords []match.Keyword
	mode     match.Mode
	tok      *ingest.Tokenizer
	filter   *ingest.Filter
	store    store.Store
	entropy  *ulid.MonotonicEntropy
}

// New validates the configuration and builds a Miner. All configuration
// errors surface here, before any row is processed.
func New(opts Options) (*Miner, error) {
	keywords, err := match.NewKeywordSet(opts.Keywords)
	if err != nil {
		return nil, err
	}

	stops := opts.Stopwords
	if stops == nil {
		stops = stoplist.Dutch()
	}

	filter := ingest.NewFilter(stops)
	if opts.MinTokenLen > 0 {
		filter.MinTokenLen = opts.MinTokenLen
	}

	return &Miner{
		keywords: keywords,
		mode:     opts.Mode,
		tok:      &ingest.Tokenizer{DigitsAsSeparators: opts.DigitsAsSeparators},
		filter:   filter,
		store:    opts.Store,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Keywords returns the validated keywords in output-column order.
func (m *Miner) Keywords() []match.Keyword {
	return m.keywords
}

// Mode returns the configured match mode.
func (m *Miner) Mode() match.Mode {
	return m.mode
}

// Result is the terminal output of one run.
type Result struct {
	Patients    []aggregate.PatientResult
	Stats       aggregate.RowStats
	Frequencies *aggregate.TermFrequencyTable

	// RunID is set when the run was persisted.
	RunID string
}

// Run executes both aggregations over the records. The row and frequency
// passes are independent pure computations over the same immutable slice,
// so they run concurrently. An empty record slice is a valid run with
// empty outputs.
func (m *Miner) Run(ctx context.Context, records []source.Record) (Result, error) {
	var res Result

	done := make(chan struct{})
	go func() {
		res.Frequencies = aggregate.AggregateFrequencies(records, m.tok, m.filter)
		close(done)
	}()
	res.Patients, res.Stats = aggregate.AggregateRows(records, m.keywords, m.mode)
	<-done

	if m.store != nil {
		id := ulid.MustNew(ulid.Now(), m.entropy).String()
		if err := m.store.SaveRun(ctx, m.toStoreRun(id, res)); err != nil {
			return res, fmt.Errorf("persist run: %w", err)
		}
		res.RunID = id
	}

	return res, nil
}

// Frequencies aggregates term frequencies over records without any
// keyword configuration; the table is a pure function of the free-text
// column. A nil stops selects the built-in Dutch list.
func Frequencies(records []source.Record, stops *stoplist.Set) *aggregate.TermFrequencyTable {
	if stops == nil {
		stops = stoplist.Dutch()
	}
	return aggregate.AggregateFrequencies(records, ingest.NewTokenizer(), ingest.NewFilter(stops))
}

func (m *Miner) toStoreRun(id string, res Result) store.Run {
	r := store.Run{
		ID:          id,
		CreatedAt:   time.Now().UTC(),
		Mode:        m.mode.String(),
		SkippedRows: res.Stats.SkippedRows,
	}
	for _, kw := range m.keywords {
		r.Keywords = append(r.Keywords, kw.Raw)
	}
	for _, p := range res.Patients {
		r.Patients = append(r.Patients, store.PatientFlags{
			PatientID: p.PatientID,
			Flags:     append([]bool(nil), p.Flags...),
		})
	}
	for _, tc := range res.Frequencies.Terms() {
		r.Terms = append(r.Terms, store.TermCount{Term: tc.Term, Count: tc.Count})
	}
	return r
}

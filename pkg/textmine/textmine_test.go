package textmine

import (
	"context"
	"errors"
	"testing"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/internalerr"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store/memstore"
)

func testRecords() []source.Record {
	return []source.Record{
		{PatientID: "p1", Text: "vannacht apneu gezien, verder rustig", Row: 1},
		{PatientID: "p2", Text: "klaagt over pijn op de borst", Row: 2},
		{PatientID: "p1", Text: "pijnstilling gegeven", Row: 3},
		{PatientID: "", Text: "rij zonder patientnummer", Row: 4},
		{PatientID: "p3", Text: "", Row: 5},
	}
}

func TestMinerRunEndToEnd(t *testing.T) {
	m, err := New(Options{
		Keywords:  []string{"apneu", "pijn"},
		Mode:      match.WholeWord,
		Stopwords: stoplist.Dutch(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := m.Run(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Stats.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", res.Stats.SkippedRows)
	}
	if len(res.Patients) != 3 {
		t.Fatalf("got %d patients, want 3", len(res.Patients))
	}

	// p1: apneu whole-word in record 1; "pijnstilling" is not whole-word pijn.
	p1 := res.Patients[0]
	if p1.PatientID != "p1" || !p1.Flags[0] || p1.Flags[1] {
		t.Errorf("unexpected p1 result: %+v", p1)
	}
	// p2: pijn matches.
	p2 := res.Patients[1]
	if !p2.Flags[1] || p2.Flags[0] {
		t.Errorf("unexpected p2 result: %+v", p2)
	}
	// p3 had only empty text but stays in the output.
	if res.Patients[2].PatientID != "p3" {
		t.Errorf("p3 missing from output: %+v", res.Patients)
	}

	if res.Frequencies.Count("apneu") != 1 {
		t.Errorf("Count(apneu) = %d, want 1", res.Frequencies.Count("apneu"))
	}
	// "de" and "op" are Dutch stopwords.
	if res.Frequencies.Count("de") != 0 || res.Frequencies.Count("op") != 0 {
		t.Error("stopwords leaked into frequency table")
	}
	if res.RunID != "" {
		t.Errorf("RunID should be empty without a store, got %q", res.RunID)
	}
}

func TestMinerSubstringMode(t *testing.T) {
	m, err := New(Options{Keywords: []string{"pijn"}, Mode: match.Substring})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := m.Run(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// "pijnstilling" now counts for p1.
	if !res.Patients[0].Flags[0] {
		t.Error("substring mode should flag p1 via 'pijnstilling'")
	}
}

func TestMinerRejectsBadKeywords(t *testing.T) {
	if _, err := New(Options{Keywords: nil}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("empty list error = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Options{Keywords: []string{"pijn", "  "}}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("blank keyword error = %v, want ErrInvalidConfig", err)
	}
}

func TestMinerEmptyCorpus(t *testing.T) {
	m, err := New(Options{Keywords: []string{"pijn"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := m.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if len(res.Patients) != 0 || res.Frequencies.Len() != 0 {
		t.Errorf("empty corpus should yield empty outputs: %+v", res)
	}
}

func TestMinerPersistsRun(t *testing.T) {
	st := memstore.New()
	m, err := New(Options{Keywords: []string{"Apneu", "pijn"}, Store: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := m.Run(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("RunID empty after persisted run")
	}

	saved, found, err := st.GetRun(context.Background(), res.RunID)
	if err != nil || !found {
		t.Fatalf("GetRun: found=%v err=%v", found, err)
	}
	if saved.Mode != "whole-word" {
		t.Errorf("stored mode = %q", saved.Mode)
	}
	if len(saved.Keywords) != 2 || saved.Keywords[0] != "Apneu" {
		t.Errorf("stored keywords = %v, want raw forms in order", saved.Keywords)
	}
	if len(saved.Patients) != len(res.Patients) {
		t.Errorf("stored %d patients, want %d", len(saved.Patients), len(res.Patients))
	}
	if saved.SkippedRows != 1 {
		t.Errorf("stored SkippedRows = %d, want 1", saved.SkippedRows)
	}
}

func TestMinerRunIDsUnique(t *testing.T) {
	st := memstore.New()
	m, err := New(Options{Keywords: []string{"pijn"}, Store: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		res, err := m.Run(context.Background(), testRecords())
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		if _, dup := seen[res.RunID]; dup {
			t.Fatalf("duplicate run id %q", res.RunID)
		}
		seen[res.RunID] = struct{}{}
	}
}

package export

import (
	"strings"
	"testing"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/aggregate"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
)

func testKeywords(t *testing.T) []match.Keyword {
	t.Helper()
	kws, err := match.NewKeywordSet([]string{"pijn", "apneu"})
	if err != nil {
		t.Fatalf("NewKeywordSet: %v", err)
	}
	return kws
}

func TestWritePatients(t *testing.T) {
	patients := []aggregate.PatientResult{
		{PatientID: "p1", Flags: []bool{true, false}},
		{PatientID: "p2", Flags: []bool{false, true}},
	}

	var buf strings.Builder
	if err := WritePatients(&buf, patients, testKeywords(t), "patient_id"); err != nil {
		t.Fatalf("WritePatients: %v", err)
	}

	want := "patient_id,pijn,apneu\np1,1,0\np2,0,1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWritePatientsEmpty(t *testing.T) {
	var buf strings.Builder
	if err := WritePatients(&buf, nil, testKeywords(t), "patient_id"); err != nil {
		t.Fatalf("WritePatients: %v", err)
	}

	// Header always present so downstream tools see the column layout.
	if buf.String() != "patient_id,pijn,apneu\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteFrequencies(t *testing.T) {
	table := aggregate.NewTermFrequencyTable()
	for _, term := range []string{"pijn", "onrust", "pijn"} {
		table.Add(term)
	}

	var buf strings.Builder
	if err := WriteFrequencies(&buf, table); err != nil {
		t.Fatalf("WriteFrequencies: %v", err)
	}

	want := "term,count\npijn,2\nonrust,1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

package tui

import (
	"context"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/config"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/export"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
)

// Runner is the MinerPort implementation backed by the real engine and
// CSV input; the TUI stays a thin shell around it.
type Runner struct {
	Stopwords *stoplist.Set
	Store     store.Store
}

// Extract reads the CSV, runs the miner and optionally writes the patient
// table to the requested output path.
func (r *Runner) Extract(req RunRequest) (RunOutcome, error) {
	miner, err := textmine.New(textmine.Options{
		Keywords:  config.SplitKeywords(req.Keywords),
		Mode:      req.Mode,
		Stopwords: r.Stopwords,
		Store:     r.Store,
	})
	if err != nil {
		return RunOutcome{}, err
	}

	provider := &source.CSVProvider{
		Path:       req.InputPath,
		PatientCol: req.PatientCol,
		TextCol:    req.TextCol,
	}
	records, err := provider.Records(context.Background())
	if err != nil {
		return RunOutcome{}, err
	}

	res, err := miner.Run(context.Background(), records)
	if err != nil {
		return RunOutcome{}, err
	}

	if req.Output != "" {
		if err := export.WritePatientsFile(req.Output, res.Patients, miner.Keywords(), req.PatientCol); err != nil {
			return RunOutcome{}, err
		}
	}

	return RunOutcome{
		Keywords:    miner.Keywords(),
		Patients:    res.Patients,
		Frequencies: res.Frequencies,
		SkippedRows: res.Stats.SkippedRows,
		RunID:       res.RunID,
	}, nil
}

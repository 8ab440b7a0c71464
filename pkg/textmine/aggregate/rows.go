// Package aggregate turns raw records into the run's two outputs: the
// per-patient keyword flag table and the global term frequency table. The
// two aggregations are independent passes over the same immutable records.
package aggregate

import (
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
)

// PatientResult holds one patient's keyword occurrence flags. Flags[i] is
// true iff at least one of the patient's records matched keyword i.
type PatientResult struct {
	PatientID string
	Flags     []bool
}

// RowStats reports what the row aggregation saw.
type RowStats struct {
	Records  int
	Patients int
	// SkippedRows counts records excluded for a missing patient id.
	SkippedRows int
}

// AggregateRows computes keyword flags per distinct patient, in the order
// patients are first encountered. Patients with no matching records stay
// in the output with all-false flags. Records without a patient id are
// skipped and counted, never silently dropped or fatal.
//
// Memory is proportional to distinct patients times keywords, not to the
// number of records.
func AggregateRows(records []source.Record, keywords []match.Keyword, mode match.Mode) ([]PatientResult, RowStats) {
	var stats RowStats
	index := make(map[string]int)
	var results []PatientResult

	for _, rec := range records {
		stats.Records++
		if rec.PatientID == "" {
			stats.SkippedRows++
			continue
		}

		i, ok := index[rec.PatientID]
		if !ok {
			i = len(results)
			index[rec.PatientID] = i
			results = append(results, PatientResult{
				PatientID: rec.PatientID,
				Flags:     make([]bool, len(keywords)),
			})
		}

		for k, kw := range keywords {
			if results[i].Flags[k] {
				continue
			}
			if match.Matches(rec.Text, kw, mode) {
				results[i].Flags[k] = true
			}
		}
	}

	stats.Patients = len(results)
	return results, stats
}

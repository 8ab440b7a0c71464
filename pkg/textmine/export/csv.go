// Package export serializes run output to tabular destinations.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/aggregate"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
)

// WritePatients writes one row per patient: the patient-id column followed
// by one 0/1 column per keyword, in configured keyword order.
func WritePatients(w io.Writer, patients []aggregate.PatientResult, keywords []match.Keyword, patientCol string) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(keywords)+1)
	header = append(header, patientCol)
	for _, kw := range keywords {
		header = append(header, kw.Raw)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, p := range patients {
		row[0] = p.PatientID
		for i, flag := range p.Flags {
			if flag {
				row[i+1] = "1"
			} else {
				row[i+1] = "0"
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", p.PatientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFrequencies writes term,count rows in first-seen corpus order.
func WriteFrequencies(w io.Writer, table *aggregate.TermFrequencyTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"term", "count"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tc := range table.Terms() {
		if err := cw.Write([]string{tc.Term, strconv.Itoa(tc.Count)}); err != nil {
			return fmt.Errorf("write term %s: %w", tc.Term, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePatientsFile writes the patient table to a file at path.
func WritePatientsFile(path string, patients []aggregate.PatientResult, keywords []match.Keyword, patientCol string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WritePatients(f, patients, keywords, patientCol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

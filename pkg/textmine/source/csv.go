package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/internalerr"
)

// CSVProvider reads records from a CSV file with a header row. Column
// names are resolved case-insensitively against the header; a missing
// column is a fatal error reported before any row is returned.
type CSVProvider struct {
	Path       string
	PatientCol string
	TextCol    string

	// Comma overrides the field separator. Zero means ','.
	Comma rune
}

// Records reads the whole file. Rows shorter than the text column are
// tolerated (missing text reads as empty); rows shorter than the patient
// column yield a record with an empty patient id so the aggregator can
// count them as skipped.
func (p *CSVProvider) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if p.Comma != 0 {
		r.Comma = p.Comma
	}
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header row", internalerr.ErrInvalidConfig, p.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pidIdx, err := columnIndex(header, p.PatientCol)
	if err != nil {
		return nil, err
	}
	textIdx, err := columnIndex(header, p.TextCol)
	if err != nil {
		return nil, err
	}

	var records []Record
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		records = append(records, Record{
			PatientID: strings.TrimSpace(fieldAt(fields, pidIdx)),
			Text:      fieldAt(fields, textIdx),
			Row:       row,
		})
	}
	return records, nil
}

func columnIndex(header []string, name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: column name is empty", internalerr.ErrInvalidConfig)
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)",
		internalerr.ErrColumnNotFound, name, strings.Join(header, ", "))
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

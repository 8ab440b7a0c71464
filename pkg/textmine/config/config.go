// Package config loads run configuration and stopword lists from YAML
// files. The core treats a loaded, validated config as immutable for the
// duration of one run.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/internalerr"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"
)

// Run describes one extraction run.
type Run struct {
	Input      string   `yaml:"input"`
	PatientCol string   `yaml:"patient_id_column"`
	TextCol    string   `yaml:"text_column"`
	Keywords   []string `yaml:"keywords"`
	Mode       string   `yaml:"match_mode"`
	Output     string   `yaml:"output"`

	// StoplistPath points at a YAML stopword list; empty selects the
	// built-in Dutch list.
	StoplistPath string `yaml:"stoplist"`
	// ResultsDB is an optional SQLite path for persisting runs.
	ResultsDB string `yaml:"results_db"`
	// TopTerms bounds the term cloud; zero means default.
	TopTerms int `yaml:"top_terms"`
}

// LoadRun loads a run config from a YAML file.
func LoadRun(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Run
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the required fields, reporting each missing value as a
// configuration error before any aggregation starts. Keyword content and
// match mode are validated by the match package.
func (r *Run) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return fmt.Errorf("%w: input path is required", internalerr.ErrInvalidConfig)
	}
	if strings.TrimSpace(r.PatientCol) == "" {
		return fmt.Errorf("%w: patient_id_column is required", internalerr.ErrInvalidConfig)
	}
	if strings.TrimSpace(r.TextCol) == "" {
		return fmt.Errorf("%w: text_column is required", internalerr.ErrInvalidConfig)
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("%w: keywords are required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// SplitKeywords splits a comma-separated keyword entry into the ordered
// raw list, keeping blanks so validation can point at them by position.
func SplitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Stoplist is the stopword list file format: a YAML terms list.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file. An empty path selects
// the built-in Dutch list.
func LoadStoplist(path string) (*stoplist.Set, error) {
	if path == "" {
		return stoplist.Dutch(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}
	return stoplist.New(sl.Terms), nil
}

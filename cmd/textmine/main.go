package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/cloud"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/config"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/export"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store/sqlite"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "Optional: YAML run config; flags override its values")
		input      = flag.String("input", "", "Path to input CSV (required)")
		patientCol = flag.String("patient-col", "patient_id", "Patient id column name")
		textCol    = flag.String("text-col", "Report", "Free-text column name")
		keywords   = flag.String("keywords", "", "Comma-separated keyword list (required)")
		modeFlag   = flag.String("mode", "whole-word", "Match mode: whole-word or substring")
		stoplistP  = flag.String("stoplist", "", "Optional: YAML stopword list (default: built-in Dutch)")
		output     = flag.String("output", "", "Optional: output CSV for the patient table")
		freqOut    = flag.String("freq-output", "", "Optional: output CSV for the term frequencies")
		dbPath     = flag.String("db", "", "Optional: SQLite path for persisting runs")
		top        = flag.Int("top", cloud.DefaultTopTerms, "Number of terms in the printed cloud")
		noCloud    = flag.Bool("no-cloud", false, "Skip printing the term cloud")
	)
	flag.Parse()

	run := &config.Run{
		Input:        *input,
		PatientCol:   *patientCol,
		TextCol:      *textCol,
		Keywords:     config.SplitKeywords(*keywords),
		Mode:         *modeFlag,
		StoplistPath: *stoplistP,
		Output:       *output,
		ResultsDB:    *dbPath,
		TopTerms:     *top,
	}
	if *cfgPath != "" {
		loaded, err := config.LoadRun(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		mergeFlags(loaded, run)
		run = loaded
	}

	if err := run.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	mode, err := match.ParseMode(run.Mode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	stops, err := config.LoadStoplist(run.StoplistPath)
	if err != nil {
		log.Fatalf("load stoplist: %v", err)
	}

	ctx := context.Background()

	var st store.Store
	if run.ResultsDB != "" {
		st, err = sqlite.Open(ctx, run.ResultsDB)
		if err != nil {
			log.Fatalf("open results db: %v", err)
		}
		defer st.Close()
	}

	miner, err := textmine.New(textmine.Options{
		Keywords:  run.Keywords,
		Mode:      mode,
		Stopwords: stops,
		Store:     st,
	})
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	provider := &source.CSVProvider{
		Path:       run.Input,
		PatientCol: run.PatientCol,
		TextCol:    run.TextCol,
	}
	records, err := provider.Records(ctx)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	res, err := miner.Run(ctx, records)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	log.Printf("processed %d rows: %d patients, %d skipped (missing patient id), %d distinct terms",
		res.Stats.Records, res.Stats.Patients, res.Stats.SkippedRows, res.Frequencies.Len())
	if res.RunID != "" {
		log.Printf("run saved as %s", res.RunID)
	}

	if run.Output != "" {
		if err := export.WritePatientsFile(run.Output, res.Patients, miner.Keywords(), run.PatientCol); err != nil {
			log.Fatalf("write output: %v", err)
		}
		log.Printf("patient table written to %s", run.Output)
	} else {
		if err := export.WritePatients(os.Stdout, res.Patients, miner.Keywords(), run.PatientCol); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}

	if *freqOut != "" {
		f, err := os.Create(*freqOut)
		if err != nil {
			log.Fatalf("create freq output: %v", err)
		}
		if err := export.WriteFrequencies(f, res.Frequencies); err != nil {
			f.Close()
			log.Fatalf("write freq output: %v", err)
		}
		f.Close()
		log.Printf("term frequencies written to %s", *freqOut)
	}

	if !*noCloud && res.Frequencies.Len() > 0 {
		fmt.Println()
		fmt.Println(cloud.Render(res.Frequencies, run.TopTerms, 80))
	}
}

// mergeFlags copies explicitly set flag values over the loaded config.
func mergeFlags(dst, flags *config.Run) {
	if flags.Input != "" {
		dst.Input = flags.Input
	}
	if flags.PatientCol != "" && flags.PatientCol != "patient_id" {
		dst.PatientCol = flags.PatientCol
	}
	if flags.TextCol != "" && flags.TextCol != "Report" {
		dst.TextCol = flags.TextCol
	}
	if len(flags.Keywords) > 0 {
		dst.Keywords = flags.Keywords
	}
	if flags.Mode != "" && flags.Mode != "whole-word" {
		dst.Mode = flags.Mode
	}
	if flags.StoplistPath != "" {
		dst.StoplistPath = flags.StoplistPath
	}
	if flags.Output != "" {
		dst.Output = flags.Output
	}
	if flags.ResultsDB != "" {
		dst.ResultsDB = flags.ResultsDB
	}
	if flags.TopTerms > 0 && flags.TopTerms != cloud.DefaultTopTerms {
		dst.TopTerms = flags.TopTerms
	}
}

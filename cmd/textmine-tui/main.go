package main

import (
	"context"
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/bdebritorobalo/ehr-text-mining/internal/tui"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/config"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	var (
		stoplistP = flag.String("stoplist", os.Getenv("TEXTMINE_STOPLIST"), "Optional: YAML stopword list")
		dbPath    = flag.String("db", os.Getenv("TEXTMINE_DB"), "Optional: SQLite path for persisting runs")
	)
	flag.Parse()

	stops, err := config.LoadStoplist(*stoplistP)
	if err != nil {
		log.Fatalf("load stoplist: %v", err)
	}

	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.Open(context.Background(), *dbPath)
		if err != nil {
			log.Fatalf("open results db: %v", err)
		}
		defer st.Close()
	}

	runner := &tui.Runner{Stopwords: stops, Store: st}
	p := tea.NewProgram(tui.New(runner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bdebritorobalo/ehr-text-mining/internal/api"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/config"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("TEXTMINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var (
		addrFlag  = flag.String("addr", addr, "Listen address")
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

	srv := api.NewServer(st, stops)
	log.Printf("listening on %s", *addrFlag)
	if err := http.ListenAndServe(*addrFlag, srv.Router()); err != nil {
		log.Fatal(err)
	}
}

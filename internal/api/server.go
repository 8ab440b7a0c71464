// Package api wraps the extraction engine in a small HTTP service so
// other hospital tooling can call it without the spreadsheet front end.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bdebritorobalo/ehr-text-mining/internal/metrics"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/cloud"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/internalerr"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/source"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/stoplist"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
)

// Server serves the extraction API.
type Server struct {
	router *chi.Mux
	store  store.Store
	stops  *stoplist.Set
}

// NewServer builds the router. store may be nil (runs are not persisted);
// stops may be nil (built-in Dutch list).
func NewServer(st store.Store, stops *stoplist.Set) *Server {
	s := &Server{router: chi.NewRouter(), store: st, stops: stops}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Post("/v1/extract", s.handleExtract)
	s.router.Post("/v1/frequencies", s.handleFrequencies)
	s.router.Get("/v1/runs", s.handleListRuns)
	s.router.Get("/v1/runs/{id}", s.handleGetRun)
}

// Router returns the http.Handler for this server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// RecordPayload is one input row.
type RecordPayload struct {
	PatientID string `json:"patient_id"`
	Text      string `json:"text"`
}

// ExtractRequest is the body of POST /v1/extract.
type ExtractRequest struct {
	Records  []RecordPayload `json:"records"`
	Keywords []string        `json:"keywords"`
	Mode     string          `json:"mode"`
}

// PatientPayload is one output row.
type PatientPayload struct {
	PatientID string `json:"patient_id"`
	Flags     []int  `json:"flags"`
}

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	RunID       string           `json:"run_id,omitempty"`
	Keywords    []string         `json:"keywords"`
	Mode        string           `json:"mode"`
	Patients    []PatientPayload `json:"patients"`
	SkippedRows int              `json:"skipped_rows"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	mode, err := match.ParseMode(req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	miner, err := textmine.New(textmine.Options{
		Keywords:  req.Keywords,
		Mode:      mode,
		Stopwords: s.stops,
		Store:     s.store,
	})
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, internalerr.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	res, err := miner.Run(r.Context(), toRecords(req.Records))
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	metrics.RowsProcessed.Add(float64(res.Stats.Records))
	metrics.RowsSkipped.Add(float64(res.Stats.SkippedRows))

	resp := ExtractResponse{
		RunID:       res.RunID,
		Mode:        mode.String(),
		Patients:    []PatientPayload{},
		SkippedRows: res.Stats.SkippedRows,
	}
	for _, kw := range miner.Keywords() {
		resp.Keywords = append(resp.Keywords, kw.Raw)
	}
	for _, p := range res.Patients {
		flags := make([]int, len(p.Flags))
		for i, f := range p.Flags {
			if f {
				flags[i] = 1
			}
		}
		resp.Patients = append(resp.Patients, PatientPayload{PatientID: p.PatientID, Flags: flags})
	}
	respondJSON(w, http.StatusOK, resp)
}

// FrequenciesRequest is the body of POST /v1/frequencies.
type FrequenciesRequest struct {
	Records []RecordPayload `json:"records"`
	Top     int             `json:"top"`
}

// TermPayload is one frequency entry.
type TermPayload struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// FrequenciesResponse carries the top terms and a rendered text cloud.
type FrequenciesResponse struct {
	Terms []TermPayload `json:"terms"`
	Cloud string        `json:"cloud"`
}

func (s *Server) handleFrequencies(w http.ResponseWriter, r *http.Request) {
	var req FrequenciesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	table := textmine.Frequencies(toRecords(req.Records), s.stops)

	resp := FrequenciesResponse{
		Terms: []TermPayload{},
		Cloud: cloud.Render(table, req.Top, 80),
	}
	for _, tc := range table.Top(req.Top) {
		resp.Terms = append(resp.Terms, TermPayload{Term: tc.Term, Count: tc.Count})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, "run store not configured")
		return
	}
	sums, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sums == nil {
		sums = []store.RunSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": sums})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, "run store not configured")
		return
	}
	id := chi.URLParam(r, "id")
	run, found, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "run "+id+" not found")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func toRecords(payload []RecordPayload) []source.Record {
	records := make([]source.Record, len(payload))
	for i, p := range payload {
		records[i] = source.Record{PatientID: p.PatientID, Text: p.Text, Row: i + 1}
	}
	return records
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

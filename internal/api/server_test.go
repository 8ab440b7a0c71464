package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store/memstore"
)

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpoint(t *testing.T) {
	srv := NewServer(nil, nil)

	body := `{
		"records": [
			{"patient_id": "p1", "text": "vannacht apneu gezien"},
			{"patient_id": "p2", "text": "rustige nacht"},
			{"patient_id": "", "text": "geen nummer"}
		],
		"keywords": ["apneu"],
		"mode": "whole-word"
	}`
	rec := postJSON(t, srv.Router(), "/v1/extract", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", resp.SkippedRows)
	}
	if len(resp.Patients) != 2 {
		t.Fatalf("got %d patients, want 2", len(resp.Patients))
	}
	if resp.Patients[0].PatientID != "p1" || resp.Patients[0].Flags[0] != 1 {
		t.Errorf("unexpected first patient: %+v", resp.Patients[0])
	}
	if resp.Patients[1].Flags[0] != 0 {
		t.Errorf("p2 should not match: %+v", resp.Patients[1])
	}
}

func TestExtractRejectsEmptyKeywords(t *testing.T) {
	srv := NewServer(nil, nil)

	rec := postJSON(t, srv.Router(), "/v1/extract", `{"records": [], "keywords": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExtractRejectsUnknownMode(t *testing.T) {
	srv := NewServer(nil, nil)

	rec := postJSON(t, srv.Router(), "/v1/extract", `{"records": [], "keywords": ["pijn"], "mode": "fuzzy"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExtractRejectsBadJSON(t *testing.T) {
	srv := NewServer(nil, nil)

	rec := postJSON(t, srv.Router(), "/v1/extract", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFrequenciesEndpoint(t *testing.T) {
	srv := NewServer(nil, nil)

	body := `{
		"records": [
			{"patient_id": "p1", "text": "pijn en hoofdpijn"},
			{"patient_id": "p2", "text": "de pijn neemt toe"}
		],
		"top": 5
	}`
	rec := postJSON(t, srv.Router(), "/v1/frequencies", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp FrequenciesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Terms) == 0 || resp.Terms[0].Term != "pijn" || resp.Terms[0].Count != 2 {
		t.Errorf("unexpected terms: %+v", resp.Terms)
	}
	for _, tc := range resp.Terms {
		if tc.Term == "de" || tc.Term == "en" {
			t.Errorf("stopword %q in response", tc.Term)
		}
	}
	if resp.Cloud == "" {
		t.Error("cloud rendering missing")
	}
}

func TestRunsEndpointsWithStore(t *testing.T) {
	st := memstore.New()
	srv := NewServer(st, nil)

	body := `{"records": [{"patient_id": "p1", "text": "apneu"}], "keywords": ["apneu"]}`
	rec := postJSON(t, srv.Router(), "/v1/extract", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract status = %d", rec.Code)
	}

	var extract ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &extract); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if extract.RunID == "" {
		t.Fatal("RunID missing with store configured")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/runs/"+extract.RunID, nil)
	getRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Errorf("get run status = %d", getRec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	listRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Errorf("list runs status = %d", listRec.Code)
	}
	if !strings.Contains(listRec.Body.String(), extract.RunID) {
		t.Error("run id missing from listing")
	}
}

func TestRunsEndpointsWithoutStore(t *testing.T) {
	srv := NewServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

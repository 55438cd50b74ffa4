// Package httpapi exposes the scanner and history store over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/saascan/saascan/internal/analysis"
	"github.com/saascan/saascan/internal/history"
	"github.com/saascan/saascan/internal/scanner"
)

// PDFRenderer renders one record as a PDF document.
// *report.ChromiumPDFRenderer satisfies it.
type PDFRenderer interface {
	Render(ctx context.Context, rec analysis.Record) ([]byte, error)
}

type Server struct {
	scanner  *scanner.Service
	store    *history.Store
	renderer PDFRenderer
}

// NewServer wires the routes. renderer may be nil; the PDF endpoint then
// reports 503.
func NewServer(svc *scanner.Service, store *history.Store, renderer PDFRenderer) http.Handler {
	s := &Server{scanner: svc, store: store, renderer: renderer}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyses", s.handleAnalyses)
	mux.HandleFunc("/v1/analyses/", s.handleAnalysisByID)
	mux.HandleFunc("/v1/export", s.handleExport)
	mux.HandleFunc("/v1/import", s.handleImport)
	mux.HandleFunc("/v1/stats", s.handleStats)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": message},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreate(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	case http.MethodDelete:
		if !s.store.Clear() {
			writeError(w, 500, "failed to clear history")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "unreadable body")
		return
	}
	var req struct {
		Idea string `json:"idea"`
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}

	var out scanner.Outcome
	switch strings.TrimSpace(strings.ToLower(req.Mode)) {
	case "", "single":
		out, err = s.scanner.Analyze(r.Context(), req.Idea)
	case "legacy":
		out, err = s.scanner.AnalyzeLegacy(r.Context(), req.Idea)
	case "comprehensive":
		out, err = s.scanner.AnalyzeComprehensive(r.Context(), req.Idea)
	default:
		writeError(w, 400, "unknown mode "+strconv.Quote(req.Mode))
		return
	}
	if err != nil {
		if errors.Is(err, scanner.ErrEmptyInput) {
			writeError(w, 400, err.Error())
			return
		}
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "analysis": out})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var items []history.Item
	if query := strings.TrimSpace(q.Get("q")); query != "" {
		items = s.store.Search(query)
	} else {
		items = s.store.GetAll()
	}

	minScore := parseInt(q.Get("min_score"), analysis.StorageFloor)
	maxScore := parseInt(q.Get("max_score"), analysis.ScoreCeiling)
	innovation := strings.TrimSpace(q.Get("innovation"))
	start, hasStart := parseTime(q.Get("start"))
	end, hasEnd := parseTime(q.Get("end"))

	filtered := items[:0:0]
	for _, it := range items {
		if it.OverallScore < minScore || it.OverallScore > maxScore {
			continue
		}
		if innovation != "" && it.Analysis.InnovationLevel != analysis.ParseInnovationLevel(innovation) {
			continue
		}
		if hasStart || hasEnd {
			ts, err := time.Parse(time.RFC3339, it.Timestamp)
			if err != nil {
				continue
			}
			if hasStart && ts.Before(start) {
				continue
			}
			if hasEnd && ts.After(end) {
				continue
			}
		}
		filtered = append(filtered, it)
	}
	if filtered == nil {
		filtered = []history.Item{}
	}
	writeJSON(w, 200, map[string]any{"analyses": filtered, "total": len(filtered)})
}

func parseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Server) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	if path == "delete" {
		s.handleDeleteMany(w, r)
		return
	}

	if id, ok := strings.CutSuffix(path, "/report.pdf"); ok {
		s.handleReportPDF(w, r, id)
		return
	}

	id := strings.TrimSuffix(path, "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, ok := s.store.GetByID(id)
		if !ok {
			writeError(w, 404, "analysis not found")
			return
		}
		writeJSON(w, 200, map[string]any{"analysis": item})
	case http.MethodDelete:
		if !s.store.Delete(id) {
			writeError(w, 404, "analysis not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if s.renderer == nil {
		writeError(w, 503, "pdf rendering not available")
		return
	}
	item, ok := s.store.GetByID(id)
	if !ok {
		writeError(w, 404, "analysis not found")
		return
	}
	pdf, err := s.renderer.Render(r.Context(), item.Analysis)
	if err != nil {
		writeError(w, 500, "render failed: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) handleDeleteMany(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "unreadable body")
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, 400, "ids is required")
		return
	}
	if !s.store.DeleteMany(req.IDs) {
		writeError(w, 404, "no matching analyses")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	payload, err := s.store.ExportJSON()
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="saascan-history.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, payload)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "unreadable body")
		return
	}
	if !s.store.ImportJSON(string(blob)) {
		writeError(w, 400, "no valid analyses in payload")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "total": s.store.Stats().TotalAnalyses})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, s.store.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"status":         "ok",
		"total_analyses": s.store.Stats().TotalAnalyses,
	})
}

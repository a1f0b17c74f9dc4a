// Package server exposes the scanner and cleaner over a local HTTP
// API. The API adds no authority of its own: every path crossing it is
// re-validated by the layers underneath, so a hostile request can at
// worst be told no.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/macsweep/macsweep/internal/classify"
	"github.com/macsweep/macsweep/internal/clean"
	"github.com/macsweep/macsweep/internal/diskinfo"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/history"
	"github.com/macsweep/macsweep/internal/lookup"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/tmutil"
)

// Server wires the HTTP surface to the core subsystems.
type Server struct {
	scanner    *scan.Scanner
	cleaner    *clean.Cleaner
	classifier *classify.Classifier
	history    *history.Log
	lookup     *lookup.Client
	log        *zap.Logger
}

// New builds a Server. A nil logger disables request logging.
func New(sc *scan.Scanner, cl *clean.Cleaner, cf *classify.Classifier, h *history.Log, lk *lookup.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{scanner: sc, cleaner: cl, classifier: cf, history: h, lookup: lk, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/scan", s.handleScan)
	mux.HandleFunc("GET /api/children", s.handleChildren)
	mux.HandleFunc("POST /api/delete", s.handleDelete)
	mux.HandleFunc("POST /api/learn", s.handleLearn)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/disk", s.handleDisk)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)
	mux.HandleFunc("GET /api/lookup", s.handleLookup)

	return s.logging(mux)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	entries := s.scanner.Scan()
	payload := map[string]any{"folders": entries}

	// Best effort extras; a scan is still useful without them.
	if info, err := diskinfo.Collect(r.Context()); err == nil {
		payload["disk"] = info
	}
	if n, err := tmutil.Count(r.Context()); err == nil {
		payload["snapshot_count"] = n
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.sendError(w, http.StatusBadRequest, "path required")
		return
	}
	children, err := s.scanner.DrillDown(path)
	if err != nil {
		s.sendCoreError(w, path, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "children": children})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Requests []clean.Request `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if len(body.Requests) == 0 {
		s.sendError(w, http.StatusBadRequest, "no paths given")
		return
	}
	results := s.cleaner.DeleteBatch(r.Context(), body.Requests)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Risk        entry.Risk `json:"risk"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if err := s.classifier.Learn(body.Name, entry.Label{Description: body.Description, Risk: body.Risk}); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "learned"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.sendError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	records, err := s.history.Recent(limit)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.Stats(time.Now())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	info, err := diskinfo.Collect(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := tmutil.List(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps, "count": len(snaps)})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.sendError(w, http.StatusBadRequest, "name required")
		return
	}

	// Local resolvers first; the web is a last resort.
	if label := s.classifier.Classify(name); label != classify.Unknown {
		writeJSON(w, http.StatusOK, map[string]any{"name": name, "label": label, "found": true, "source": "local"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	label, err := s.lookup.Describe(ctx, name)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	if label.Description != "" {
		if err := s.classifier.Learn(name, label); err != nil {
			s.log.Warn("persist lookup", zap.String("name", name), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "label": label, "found": label.Description != "", "source": "web"})
}

// sendCoreError maps the core sentinel errors onto HTTP statuses.
func (s *Server) sendCoreError(w http.ResponseWriter, path string, err error) {
	switch {
	case errors.Is(err, entry.ErrSecurityRejected):
		s.log.Warn("path rejected", zap.String("path", path))
		s.sendError(w, http.StatusForbidden, "path outside allowed roots")
	case errors.Is(err, entry.ErrNotFound):
		s.sendError(w, http.StatusNotFound, "path not found")
	default:
		s.sendError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) sendError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"error": message, "code": code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

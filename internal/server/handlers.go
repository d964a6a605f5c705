package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"plantdash/internal/export"
	"plantdash/internal/logger"
	"plantdash/internal/visibility"
)

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	storageCheck := "disabled"
	if s.Storage != nil {
		storageCheck = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": storageCheck,
		},
	})
}

// HandleRoot serves the dashboard page for the current state
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s.mu.Lock()
	snap, err := s.Dashboard.Snapshot(ctx)
	if err != nil {
		s.mu.Unlock()
		s.reqLog(r).Error("failed to build snapshot", err)
		http.Error(w, "Failed to build dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}
	detail, err := s.Dashboard.Detail(ctx)
	s.mu.Unlock()
	if err != nil {
		s.reqLog(r).Error("failed to build detail", err)
		http.Error(w, "Failed to build dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	page, err := s.Builder.BuildDashboardHTML(snap, detail, s.Version, s.now())
	if err != nil {
		s.reqLog(r).Error("failed to render page", err)
		http.Error(w, "Failed to render dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleDashboard returns the current snapshot as JSON
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap, err := s.Dashboard.Snapshot(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.reqLog(r).Error("failed to build snapshot", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDetail returns the annual detail view as JSON
func (s *Server) HandleDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	detail, err := s.Dashboard.Detail(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.reqLog(r).Error("failed to build detail", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleSelectPeriod applies a month picker value. Invalid values leave the
// current period in place.
func (s *Server) HandleSelectPeriod(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Dashboard.SelectFromPicker(body.Value) {
		s.reqLog(r).Debug("picker value left period unchanged", logger.Fields{"value": body.Value})
	}
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

// HandlePrev moves one month back
func (s *Server) HandlePrev(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.Prev()
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

// HandleNext moves one month forward
func (s *Server) HandleNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.Next()
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

type toggleBody struct {
	Enabled bool `json:"enabled"`
}

// HandleComparison sets the persisted main chart comparison flag
func (s *Server) HandleComparison(w http.ResponseWriter, r *http.Request) {
	var body toggleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.SetComparison(r.Context(), body.Enabled)
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

// HandleDetailComparison sets the session-only detail comparison flag
func (s *Server) HandleDetailComparison(w http.ResponseWriter, r *http.Request) {
	var body toggleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.SetDetailComparison(body.Enabled)
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

// HandleCostView sets the cost and kW toggles
func (s *Server) HandleCostView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ShowCost bool `json:"showCost"`
		ShowKW   bool `json:"showKW"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.SetCostView(body.ShowCost, body.ShowKW)
	writeJSON(w, http.StatusOK, s.Dashboard.State())
}

// HandleLegend forwards a legend click. suppressDefault tells the page to
// re-render instead of toggling the series itself.
func (s *Server) HandleLegend(w http.ResponseWriter, r *http.Request) {
	group, err := visibility.ParseGroup(chi.URLParam(r, "group"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "series index must be an integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	suppress, err := s.Dashboard.OnToggle(r.Context(), group, index)
	if err != nil {
		var idxErr *visibility.IndexError
		if errors.As(err, &idxErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.reqLog(r).Error("legend toggle failed", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suppressDefault": suppress,
		"visible":         s.Dashboard.Visible(group),
	})
}

// HandleExport renders the current snapshot as PDF or XLSX and archives it
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != "pdf" && format != "xlsx" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unsupported export format %q", format))
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.exportMutex.TryLock() {
		s.reqLog(r).Warn("export already in progress, rejecting request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Export already in progress",
			"message": "Another export is currently running. Please wait for it to complete.",
			"status":  "conflict",
		})
		return
	}
	defer s.exportMutex.Unlock()

	ctx := r.Context()
	log := s.reqLog(r)

	s.mu.Lock()
	snap, err := s.Dashboard.Snapshot(ctx)
	s.mu.Unlock()
	if err != nil {
		log.Error("failed to build snapshot", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	generated := s.now()
	var doc export.Document
	if format == "pdf" {
		doc, err = export.PDF(ctx, snap, s.Capturer, generated)
	} else {
		doc, err = export.Workbook(snap, generated)
	}
	if err != nil {
		log.Error("export failed", err, logger.Fields{"format": format})
		writeError(w, http.StatusInternalServerError, "Export failed: "+err.Error())
		return
	}
	for _, chartErr := range doc.ChartErrors {
		log.Warn("chart replaced by placeholder", logger.Fields{"error": chartErr.Error()})
	}

	if s.Storage != nil {
		path, err := export.Archive(ctx, s.Storage, doc, generated)
		if err != nil {
			log.Error("failed to archive export", err)
		} else {
			w.Header().Set("X-Export-Path", path)
		}
	}

	log.Info("export generated", logger.Fields{"file": doc.Filename, "bytes": len(doc.Data)})
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Write(doc.Data)
}

// HandleListExports lists archived exports
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"exports": []string{}, "count": 0})
		return
	}

	files, err := s.Storage.ListFiles(r.Context(), "exports/")
	if err != nil {
		s.reqLog(r).Error("failed to list exports", err)
		writeError(w, http.StatusInternalServerError, "Failed to list exports: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exports":   files,
		"count":     len(files),
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

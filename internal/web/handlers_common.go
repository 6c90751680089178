package web

// handlers_common.go holds the JSON API handlers and helpers shared by the
// page handlers.

import (
	"bytes"
	"net/http"

	"github.com/JonMunkholm/labeler/internal/core"
	"github.com/JonMunkholm/labeler/internal/logging"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// render writes a component with the given status. The component is
// rendered to a buffer first so a failure can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// StateResponse is the JSON projection of the session.
type StateResponse struct {
	DatasetID uuid.UUID         `json:"dataset_id"`
	FileName  string            `json:"file_name"`
	Index     int               `json:"index"`
	Position  int               `json:"position"`
	Total     int               `json:"total"`
	Labeled   int               `json:"labeled"`
	Progress  float64           `json:"progress"`
	Record    map[string]string `json:"record"`
	Buffer    core.EditBuffer   `json:"buffer"`
	Outcome   *core.Outcome     `json:"outcome,omitempty"`
}

func newStateResponse(v core.View, out *core.Outcome) StateResponse {
	record := make(map[string]string, len(v.Record.Header))
	for i, name := range v.Record.Header {
		if i < len(v.Record.Values) {
			record[name] = v.Record.Values[i]
		}
	}
	return StateResponse{
		DatasetID: v.DatasetID,
		FileName:  v.FileName,
		Index:     v.Index,
		Position:  v.Position,
		Total:     v.Total,
		Labeled:   v.Labeled,
		Progress:  v.Progress(),
		Record:    record,
		Buffer:    v.Buffer,
		Outcome:   out,
	}
}

// handleState returns the current record and draft.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(view, nil))
}

// TaxonomyResponse lists the selectable labels.
type TaxonomyResponse struct {
	Tags       []string              `json:"tags"`
	MaxTags    int                   `json:"max_tags"`
	Severities []core.SeverityOption `json:"severities"`
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TaxonomyResponse{
		Tags:       core.DangerOptions,
		MaxTags:    core.MaxTags,
		Severities: core.SeverityOptions(),
	})
}

// StatsResponse summarizes labeling progress.
type StatsResponse struct {
	Total     int            `json:"total"`
	Labeled   int            `json:"labeled"`
	TagCounts map[string]int `json:"tag_counts"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	counts, err := s.service.TagCounts()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Total: view.Total, Labeled: view.Labeled, TagCounts: counts})
}

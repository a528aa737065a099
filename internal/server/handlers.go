package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/esgboard/internal/store"
)

// maxRenderBytes bounds the render endpoint's request body. The pipeline is
// regex based; unbounded adversarial input is a denial-of-service vector.
const maxRenderBytes = 64 * 1024

// Response is the JSON envelope every endpoint uses.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"title":   s.cfg.Dashboard.Title,
		"summary": ds.Summarize(),
	})
}

func (s *Server) handleCarbon(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dataset().Carbon)
}

func (s *Server) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dataset().Suppliers)
}

func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dataset().Compliance)
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	includeDrafts := r.URL.Query().Get("drafts") == "true"
	insights, err := s.insights.ListInsights(r.Context(), !includeDrafts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list insights")
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ins, err := s.insights.GetInsight(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "insight not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to load insight")
		return
	}
	s.writeJSON(w, http.StatusOK, ins)
}

// RenderRequest is the body of POST /api/v1/render.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// RenderResponse carries the sanitized HTML back to the caller.
type RenderResponse struct {
	HTML string `json:"html"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRenderBytes+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxRenderBytes {
		s.writeError(w, http.StatusRequestEntityTooLarge, "markdown exceeds size limit")
		return
	}

	var req RenderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusOK, RenderResponse{HTML: s.renderer.Render(req.Markdown)})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smallnest/personaforge/export"
	"github.com/smallnest/personaforge/log"
	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

type createReportRequest struct {
	URL          string `json:"url"`
	PersonaCount int    `json:"personaCount"`
}

type chatRequest struct {
	Persona        persona.UserPersona     `json:"persona"`
	ProductProfile *persona.ProductProfile `json:"productProfile,omitempty"`
	Message        string                  `json:"message"`
	History        []persona.ChatMessage   `json:"history,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("server: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// generateReport scrapes the URL, runs the pipeline and persists the result.
// The caller must hold the single-flight slot.
func (s *Server) generateReport(r *http.Request, url string, count int, listeners ...persona.StageListener) (*store.ReportEntry, error) {
	ctx := r.Context()

	content, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Run(ctx, content.PromptText(), count, listeners...)
	if err != nil {
		return nil, err
	}

	entry := store.NewEntry(url, store.ReportData{
		ProductProfile:  result.ProductProfile,
		CustomerProfile: result.CustomerProfile,
		Personas:        result.Personas,
	})
	if err := s.reports.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return entry, nil
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	if !s.tryBegin() {
		writeError(w, http.StatusTooManyRequests, "another report is being generated, try again later")
		return
	}
	defer s.end()

	entry, err := s.generateReport(r, req.URL, req.PersonaCount)
	if err != nil {
		log.Error("server: report generation failed for %s: %v", req.URL, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleStreamReport(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	url := r.URL.Query().Get("url")
	if url == "" {
		sendEvent(w, flusher, persona.StageEvent{Stage: persona.StageError, Message: "url is required"})
		return
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	if !s.tryBegin() {
		sendEvent(w, flusher, persona.StageEvent{Stage: persona.StageError, Message: "another report is being generated, try again later"})
		return
	}
	defer s.end()

	sendEvent(w, flusher, persona.StageEvent{Stage: persona.StageScraping, Message: "Scraping website..."})

	entry, err := s.generateReport(r, url, count, func(ev persona.StageEvent) {
		// The final complete event is sent below with the stored entry.
		if ev.Stage == persona.StageComplete {
			return
		}
		sendEvent(w, flusher, ev)
	})
	if err != nil {
		sendEvent(w, flusher, persona.StageEvent{Stage: persona.StageError, Message: err.Error()})
		return
	}

	sendEvent(w, flusher, persona.StageEvent{Stage: persona.StageComplete, Message: "Report complete", Data: entry})
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, ev persona.StageEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error("server: failed to marshal stage event: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Stage, data)
	flusher.Flush()
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reports.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*store.ReportEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	entry, err := s.reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearReports(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	entry, err := s.reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+entry.ID+".md"))
		_, _ = w.Write([]byte(export.ReportMarkdown(entry)))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(export.ReportHTML(entry))
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp := s.chat(r.Context(), req.Persona, req.ProductProfile, req.Message, req.History)
	writeJSON(w, http.StatusOK, resp)
}

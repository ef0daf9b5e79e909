// Package server exposes the report pipeline, report history, export and
// persona chat over HTTP. One pipeline run is allowed in flight per process;
// concurrent submissions are rejected with 429.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smallnest/personaforge/llm"
	"github.com/smallnest/personaforge/log"
	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/scraper"
	"github.com/smallnest/personaforge/store"
)

// Scraper fetches and extracts a page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.ScrapedContent, error)
}

// PipelineRunner runs the profile pipeline over scraped content.
type PipelineRunner interface {
	Run(ctx context.Context, scrapedContent string, personaCount int, listeners ...persona.StageListener) (*persona.Result, error)
}

// ChatFunc handles one persona chat turn.
type ChatFunc func(ctx context.Context, p persona.UserPersona, product *persona.ProductProfile, userMessage string, history []persona.ChatMessage) persona.ChatResponse

// Server wires the pipeline, store and chat behind an HTTP API.
type Server struct {
	scraper  Scraper
	pipeline PipelineRunner
	chat     ChatFunc
	reports  store.ReportStore

	// Single-flight guard for pipeline runs.
	mu   sync.Mutex
	busy bool
}

// New builds a Server around the given components.
func New(sc Scraper, pipeline PipelineRunner, client *llm.Client, reports store.ReportStore) *Server {
	return &Server{
		scraper:  sc,
		pipeline: pipeline,
		reports:  reports,
		chat: func(ctx context.Context, p persona.UserPersona, product *persona.ProductProfile, msg string, history []persona.ChatMessage) persona.ChatResponse {
			return persona.Chat(ctx, client, p, product, msg, history)
		},
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/reports", s.handleCreateReport)
		r.Get("/reports/stream", s.handleStreamReport)
		r.Get("/reports", s.handleListReports)
		r.Delete("/reports", s.handleClearReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Delete("/reports/{id}", s.handleDeleteReport)
		r.Get("/reports/{id}/export", s.handleExportReport)
		r.Post("/chat", s.handleChat)
	})

	return r
}

// ListenAndServe starts the HTTP server. WriteTimeout stays 0 so SSE streams
// are not cut off mid-run.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}
	log.Info("server: listening on %s", addr)
	return srv.ListenAndServe()
}

// tryBegin claims the single pipeline slot. It returns false when a run is
// already in flight.
func (s *Server) tryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Server) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

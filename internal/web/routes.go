package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-capture/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	sessionHandler := handlers.NewSessionHandler(s.session)
	captureHandler := handlers.NewCaptureHandler(s.session)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Session lifecycle
		r.Post("/session", sessionHandler.Identify)
		r.Get("/session", sessionHandler.Status)

		// Frame submission
		r.Post("/capture", captureHandler.Capture)

		// Capture history, only when a database is configured
		if s.history != nil {
			historyHandler := handlers.NewHistoryHandler(s.history)
			r.Get("/history/stats", historyHandler.Stats)
			r.Get("/history/sessions", historyHandler.RecentSessions)
			r.Get("/history/{personKey}", historyHandler.ListPerson)
		}
	})
}

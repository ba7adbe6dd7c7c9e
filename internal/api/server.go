package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchup/matchup/internal/services"
)

// Server is the thin HTTP translation layer. It parses requests into core
// types, calls the service, and renders JSON; no query or identity logic
// lives here.
type Server struct {
	GameService services.GameService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/games", s.handleSearchGames)
	r.Post("/games", s.handleCreateGame)
	r.Get("/games/{team1}/{start}/{finish}", s.handleGetGame)
	r.Patch("/games/{team1}/{start}/{finish}", s.handleModifyGame)
	r.Delete("/games/{team1}/{start}/{finish}", s.handleRemoveGame)
	r.Post("/games/{team1}/{start}/{finish}/result", s.handleRecordResult)

	r.Get("/users/{id}/games", s.handleUserGames)
	r.Get("/teams/{name}", s.handleGetTeam)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/logger"
	"github.com/matchup/matchup/internal/models"
)

type createGameRequest struct {
	Team1Name      string       `json:"team1_name"`
	Team2Name      *string      `json:"team2_name"`
	StartTime      time.Time    `json:"start_time"`
	FinishTime     time.Time    `json:"finish_time"`
	Type           string       `json:"type"`
	Competitive    bool         `json:"competitive"`
	Place          models.Place `json:"place"`
	TournamentName *string      `json:"tournament_name"`
	Description    *string      `json:"description"`
	Title          *string      `json:"title"`
}

type patchGameRequest struct {
	Team1Name      *string    `json:"team1_name"`
	Team2Name      *string    `json:"team2_name"`
	StartTime      *time.Time `json:"start_time"`
	FinishTime     *time.Time `json:"finish_time"`
	Type           *string    `json:"type"`
	Competitive    *bool      `json:"competitive"`
	Country        *string    `json:"country"`
	State          *string    `json:"state"`
	City           *string    `json:"city"`
	Street         *string    `json:"street"`
	TournamentName *string    `json:"tournament_name"`
	Description    *string    `json:"description"`
	Title          *string    `json:"title"`
}

type recordResultRequest struct {
	Result string `json:"result"`
}

type gamesPage struct {
	Games []models.Game `json:"games"`
	Total int           `json:"total"`
	Page  int           `json:"page,omitempty"`
}

func (s *Server) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	criteria, page, err := criteriaFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	games, total, err := s.GameService.SearchGames(r.Context(), criteria, page)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	writeJSON(w, http.StatusOK, gamesPage{Games: games, Total: total, Page: page})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	game, err := s.GameService.CreateGame(r.Context(), models.CreateGameInput{
		Team1Name:      req.Team1Name,
		Team2Name:      req.Team2Name,
		StartTime:      req.StartTime,
		FinishTime:     req.FinishTime,
		Type:           req.Type,
		Competitive:    req.Competitive,
		Place:          req.Place,
		TournamentName: req.TournamentName,
		Description:    req.Description,
		Title:          req.Title,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	game, err := s.GameService.GetGame(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleModifyGame(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req patchGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	game, err := s.GameService.ModifyGame(r.Context(), key, models.GamePatch{
		Team1Name:      req.Team1Name,
		Team2Name:      req.Team2Name,
		StartTime:      req.StartTime,
		FinishTime:     req.FinishTime,
		Type:           req.Type,
		Competitive:    req.Competitive,
		Country:        req.Country,
		State:          req.State,
		City:           req.City,
		Street:         req.Street,
		TournamentName: req.TournamentName,
		Description:    req.Description,
		Title:          req.Title,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleRemoveGame(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	removed, err := s.GameService.RemoveGame(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req recordResultRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	game, err := s.GameService.RecordResult(r.Context(), key, req.Result)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleUserGames(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid user id"))
		return
	}
	side := models.SideTeam1
	if r.URL.Query().Get("side") == "team2" {
		side = models.SideTeam2
	}
	log.Debug("listing completed games: user_id=%d, side=%d", userID, side)

	games, err := s.GameService.GamesPlayedByUser(r.Context(), userID, side)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	writeJSON(w, http.StatusOK, gamesPage{Games: games, Total: len(games)})
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	team, err := s.GameService.GetTeam(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// criteriaFromQuery maps the search query string onto GameCriteria. Every
// parameter is optional.
func criteriaFromQuery(r *http.Request) (models.GameCriteria, int, error) {
	values := r.URL.Query()
	var c models.GameCriteria
	var err error

	if c.MinStartTime, err = queryTime(values, "minStartTime"); err != nil {
		return c, 0, err
	}
	if c.MaxStartTime, err = queryTime(values, "maxStartTime"); err != nil {
		return c, 0, err
	}
	if c.MinFinishTime, err = queryTime(values, "minFinishTime"); err != nil {
		return c, 0, err
	}
	if c.MaxFinishTime, err = queryTime(values, "maxFinishTime"); err != nil {
		return c, 0, err
	}

	c.Types = values["type"]
	c.SportNames = values["sport"]
	c.Countries = values["country"]
	c.States = values["state"]
	c.Cities = values["city"]
	c.WithPlayers = values["withPlayers"]
	c.WithoutPlayers = values["withoutPlayers"]
	c.CreatedBy = values["createdBy"]
	c.NotCreatedBy = values["notCreatedBy"]

	if c.MinQuantity, err = queryInt(values, "minQuantity"); err != nil {
		return c, 0, err
	}
	if c.MaxQuantity, err = queryInt(values, "maxQuantity"); err != nil {
		return c, 0, err
	}
	if c.MinFreePlaces, err = queryInt(values, "minFreePlaces"); err != nil {
		return c, 0, err
	}
	if c.MaxFreePlaces, err = queryInt(values, "maxFreePlaces"); err != nil {
		return c, 0, err
	}

	if c.HasResult, err = queryBool(values, "hasResult"); err != nil {
		return c, 0, err
	}

	liked, err := queryBool(values, "onlyLikedUsers")
	if err != nil {
		return c, 0, err
	}
	c.OnlyLikedUsers = liked != nil && *liked
	liked, err = queryBool(values, "onlyLikedSports")
	if err != nil {
		return c, 0, err
	}
	c.OnlyLikedSports = liked != nil && *liked

	if u := values.Get("currentUsername"); u != "" {
		c.CurrentUsername = &u
	}

	c.Sort = values.Get("sortBy")

	limit, err := queryInt(values, "limit")
	if err != nil {
		return c, 0, err
	}
	if limit != nil {
		c.Limit = *limit
	}
	offset, err := queryInt(values, "offset")
	if err != nil {
		return c, 0, err
	}
	if offset != nil {
		c.Offset = *offset
	}

	page, err := queryInt(values, "page")
	if err != nil {
		return c, 0, err
	}
	if page == nil {
		return c, 0, nil
	}
	return c, *page, nil
}

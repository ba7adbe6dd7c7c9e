package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

// keyFromRequest parses the composite game key out of the URL path. Times are
// RFC3339.
func keyFromRequest(r *http.Request) (models.GameKey, error) {
	team1, err := url.PathUnescape(chi.URLParam(r, "team1"))
	if err != nil || team1 == "" {
		return models.GameKey{}, errors.NewBadRequestError("invalid team1 path segment")
	}
	start, err := time.Parse(time.RFC3339, chi.URLParam(r, "start"))
	if err != nil {
		return models.GameKey{}, errors.NewBadRequestError("invalid start time: " + err.Error())
	}
	finish, err := time.Parse(time.RFC3339, chi.URLParam(r, "finish"))
	if err != nil {
		return models.GameKey{}, errors.NewBadRequestError("invalid finish time: " + err.Error())
	}
	return models.GameKey{Team1Name: team1, StartTime: start, FinishTime: finish}, nil
}

func queryTime(values url.Values, name string) (*time.Time, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid " + name + ": " + err.Error())
	}
	return &t, nil
}

func queryInt(values url.Values, name string) (*int, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid " + name + ": " + err.Error())
	}
	return &i, nil
}

func queryBool(values url.Values, name string) (*bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid " + name + ": " + err.Error())
	}
	return &b, nil
}

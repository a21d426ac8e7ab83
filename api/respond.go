package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// envelope is the shape of every response
type envelope struct {
	Player  any        `json:"player,omitempty"`
	Outcome any        `json:"outcome,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK(w http.ResponseWriter, player, outcome any) {
	writeJSON(w, http.StatusOK, envelope{Player: player, Outcome: outcome})
}

func writeStatus(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, envelope{Error: &errorBody{Kind: kind, Message: strings.TrimSpace(message)}})
}

// writeError classifies err; internal failures are logged, not echoed
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeRejected(w, r, nil, err)
}

// writeRejected is writeError plus the player as it stood when the action
// was turned down, so clients still see timers that were caught up
func writeRejected(w http.ResponseWriter, r *http.Request, player *models.Player, err error) {
	kind := game.KindOf(err)
	message := err.Error()
	if kind == game.KindInternal {
		log.WithFields(log.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"requestId": middleware.GetReqID(r.Context()),
		}).WithError(err).Error("Action failed")
		message = "internal error"
		player = nil
	}

	body := envelope{Error: &errorBody{Kind: string(kind), Message: strings.TrimSpace(message)}}
	if player != nil {
		body.Player = player
	}
	writeJSON(w, statusFor(kind), body)
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", game.ErrInvalidInput, name)
	}
	return id, nil
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

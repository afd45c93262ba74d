package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"holdem-arena/server/agent"
	"holdem-arena/server/engine"
)

func Router(svc *seatService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.State())
		})

		r.Post("/hand", func(w http.ResponseWriter, r *http.Request) {
			st, err := svc.NewHand(r.Context())
			if err != nil {
				writeError(w, err, st)
				return
			}
			writeJSON(w, http.StatusOK, st)
		})

		r.Post("/action", func(w http.ResponseWriter, r *http.Request) {
			var in agent.ActionOut
			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&in); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad json: " + err.Error()})
				return
			}
			st, err := svc.Act(r.Context(), in)
			if err != nil {
				writeError(w, err, st)
				return
			}
			writeJSON(w, http.StatusOK, st)
		})
	})
	return r
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrHandOver),
		errors.Is(err, engine.ErrHandInPlay),
		errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, st State) {
	writeJSON(w, statusFor(err), map[string]any{"error": err.Error(), "state": st})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

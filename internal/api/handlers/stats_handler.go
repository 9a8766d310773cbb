package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/services"
)

// Default window sizes for the bucketed statistics endpoints.
const (
	defaultDays   = 30
	defaultWeeks  = 12
	defaultMonths = 12
)

// StatsHandler handles the public registration-statistics endpoints.
type StatsHandler struct {
	service services.StatsServiceProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service services.StatsServiceProvider) *StatsHandler {
	return &StatsHandler{service: service}
}

// Overview returns totals and current day/week/month registration counts.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Overview()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute statistics overview")
		respondError(w, "Error retrieving estadisticas", err)
		return
	}
	respond(w, http.StatusOK, "Estadisticas retrieved successfully", o)
}

// Daily returns per-date registration counts for the last ?dias days.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	days, err := windowParam(r, "dias", defaultDays)
	if err != nil {
		respondError(w, "Invalid query parameter", err)
		return
	}

	buckets, err := h.service.Daily(days)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute daily statistics")
		respondError(w, "Error retrieving estadisticas", err)
		return
	}
	respond(w, http.StatusOK, "Estadisticas diarias retrieved successfully", buckets)
}

// Weekly returns per-ISO-week registration counts for the last ?semanas weeks.
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	weeks, err := windowParam(r, "semanas", defaultWeeks)
	if err != nil {
		respondError(w, "Invalid query parameter", err)
		return
	}

	buckets, err := h.service.Weekly(weeks)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute weekly statistics")
		respondError(w, "Error retrieving estadisticas", err)
		return
	}
	respond(w, http.StatusOK, "Estadisticas semanales retrieved successfully", buckets)
}

// Monthly returns per-month registration counts for the last ?meses months.
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months, err := windowParam(r, "meses", defaultMonths)
	if err != nil {
		respondError(w, "Invalid query parameter", err)
		return
	}

	buckets, err := h.service.Monthly(months)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute monthly statistics")
		respondError(w, "Error retrieving estadisticas", err)
		return
	}
	respond(w, http.StatusOK, "Estadisticas mensuales retrieved successfully", buckets)
}

func windowParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errs.Validation(name + ": must be a positive integer")
	}
	return n, nil
}

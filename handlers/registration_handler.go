package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/padelpoint/torneo-system/middleware"
	"github.com/padelpoint/torneo-system/models"
	"github.com/padelpoint/torneo-system/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// RegisterTeamHandler обрабатывает POST /tournaments/{tournamentID}/teams
// (публичный, без аутентификации).
func (h *RegistrationHandler) RegisterTeamHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.registrationService.RegisterTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeamsHandler обрабатывает GET /tournaments/{tournamentID}/teams
func (h *RegistrationHandler) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var status *models.TeamStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.TeamStatus(v)
		switch s {
		case models.TeamStatusPending, models.TeamStatusApproved, models.TeamStatusRejected:
			status = &s
		default:
			badRequestResponse(w, r, errors.New("status must be one of: pending, approved, rejected"))
			return
		}
	}

	teams, err := h.registrationService.ListTeams(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetTeamStatusHandler обрабатывает
// PATCH /tournaments/{tournamentID}/teams/{teamID}/status
func (h *RegistrationHandler) SetTeamStatusHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID := chi.URLParam(r, "tournamentID")
	teamID := chi.URLParam(r, "teamID")

	var input struct {
		Status models.TeamStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	switch input.Status {
	case models.TeamStatusPending, models.TeamStatusApproved, models.TeamStatusRejected:
	default:
		badRequestResponse(w, r, errors.New("status must be one of: pending, approved, rejected"))
		return
	}

	team, err := h.registrationService.SetTeamStatus(r.Context(), currentUserID, tournamentID, teamID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeamHandler обрабатывает DELETE /tournaments/{tournamentID}/teams/{teamID}
func (h *RegistrationHandler) RemoveTeamHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID := chi.URLParam(r, "tournamentID")
	teamID := chi.URLParam(r, "teamID")

	if err := h.registrationService.RemoveTeam(r.Context(), currentUserID, tournamentID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv" // Для парсинга query параметров

	"github.com/go-chi/chi/v5"

	"github.com/padelpoint/torneo-system/middleware"
	"github.com/padelpoint/torneo-system/models"
	"github.com/padelpoint/torneo-system/repositories"
	"github.com/padelpoint/torneo-system/services"
)

const maxPosterBytes = 10 << 20 // 10MB

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// CreateHandler обрабатывает POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	if id == "" {
		badRequestResponse(w, r, errors.New("tournament id is required"))
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{Limit: 50}

	q := r.URL.Query()
	if v := q.Get("organizer_id"); v != "" {
		organizerID, err := strconv.Atoi(v)
		if err != nil {
			badRequestResponse(w, r, errors.New("organizer_id must be an integer"))
			return
		}
		filter.OrganizerID = &organizerID
	}
	if v := q.Get("phase"); v != "" {
		phase := models.TournamentPhase(v)
		filter.Phase = &phase
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			badRequestResponse(w, r, errors.New("limit must be an integer between 1 and 100"))
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			badRequestResponse(w, r, errors.New("offset must be a non-negative integer"))
			return
		}
		filter.Offset = offset
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateConfigHandler обрабатывает PATCH /tournaments/{tournamentID}
func (h *TournamentHandler) UpdateConfigHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")

	var input services.UpdateConfigInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateConfig(r.Context(), currentUserID, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler обрабатывает DELETE /tournaments/{tournamentID}
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")

	if err := h.tournamentService.DeleteTournament(r.Context(), currentUserID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateGroupsHandler обрабатывает POST /tournaments/{tournamentID}/groups
func (h *TournamentHandler) GenerateGroupsHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")

	groups, err := h.tournamentService.GenerateGroups(r.Context(), currentUserID, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatchResultHandler обрабатывает
// PUT /tournaments/{tournamentID}/groups/{groupID}/matches/{matchID}/result
func (h *TournamentHandler) UpdateMatchResultHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")
	groupID := chi.URLParam(r, "groupID")
	matchID := chi.URLParam(r, "matchID")

	var result models.MatchResult
	if err := readJSON(w, r, &result); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group, err := h.tournamentService.UpdateMatchResult(r.Context(), currentUserID, id, groupID, matchID, result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracketHandler обрабатывает POST /tournaments/{tournamentID}/bracket
func (h *TournamentHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")

	bracket, err := h.tournamentService.GenerateFinalBracket(r.Context(), currentUserID, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateBracketMatchHandler обрабатывает
// PUT /tournaments/{tournamentID}/bracket/matches/{matchID}/result
func (h *TournamentHandler) UpdateBracketMatchHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")
	matchID := chi.URLParam(r, "matchID")

	var result models.MatchResult
	if err := readJSON(w, r, &result); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateBracketMatch(r.Context(), currentUserID, id, matchID, result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPosterHandler обрабатывает POST /tournaments/{tournamentID}/poster
// (multipart/form-data, поле "poster").
func (h *TournamentHandler) UploadPosterHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id := chi.URLParam(r, "tournamentID")

	if err := r.ParseMultipartForm(maxPosterBytes); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("poster")
	if err != nil {
		badRequestResponse(w, r, errors.New("poster file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	tournament, err := h.tournamentService.UploadPoster(r.Context(), currentUserID, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

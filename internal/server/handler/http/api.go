package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIHandler serves the JSON API.
type APIHandler struct {
	Policies PolicyService
	Feedback FeedbackService
	Log      *zap.Logger
}

// FeedbackRequest is the JSON body of POST /api/feedback.
type FeedbackRequest struct {
	Comment  string `json:"comment"`
	PolicyID *int64 `json:"policy_id"`
}

// FavoritesResponse lists the favorited ids of the requesting browser.
type FavoritesResponse struct {
	IDs []int64 `json:"ids"`
}

// ToggleResponse reports the membership of one id after a toggle.
type ToggleResponse struct {
	ID       int64   `json:"id"`
	Favorite bool    `json:"favorite"`
	IDs      []int64 `json:"ids"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *APIHandler) log(r *http.Request) *zap.Logger {
	return requestLogger(h.Log, r)
}

// ListPolicies handles GET /api/policies. The q, region and target query
// parameters filter the result the same way the listing page does.
func (h *APIHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Policies.ListPolicies(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	f := view.Filter{Term: q.Get("q"), Region: q.Get("region"), Target: q.Get("target")}
	writeJSON(w, http.StatusOK, f.Apply(policies))
}

// GetPolicy handles GET /api/policies/{id}.
func (h *APIHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, models.ErrNotFound)
		return
	}

	policy, err := h.Policies.GetPolicy(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// Favorites handles GET /api/favorites.
func (h *APIHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	favs := loadFavorites(w, r, h.log(r))
	writeJSON(w, http.StatusOK, FavoritesResponse{IDs: favs.IDs()})
}

// ToggleFavorite handles POST /api/favorites/{id}.
func (h *APIHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid policy id"})
		return
	}

	favs := loadFavorites(w, r, h.log(r))
	on, err := favs.Toggle(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{ID: id, Favorite: on, IDs: favs.IDs()})
}

// ClearFavorites handles DELETE /api/favorites.
func (h *APIHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	favs := loadFavorites(w, r, h.log(r))
	if err := favs.Clear(); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{IDs: favs.IDs()})
}

// SubmitFeedback handles POST /api/feedback.
func (h *APIHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return
	}

	if err := h.Feedback.Submit(r.Context(), req.Comment, req.PolicyID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view.Message{Kind: view.MessageSuccess, Text: view.MsgFeedbackSuccess})
}

// writeError maps service errors to statuses: not found is 404, invalid
// input is 400 and a failed call to the data service is 502.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *models.FetchError
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: view.MsgNotFound})
	case errors.Is(err, models.ErrEmptyComment):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: view.MsgFeedbackEmpty})
	case errors.Is(err, models.ErrInvalidFeedback):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &fetchErr):
		h.log(r).Error("data service call failed", zap.String("op", fetchErr.Op), zap.Error(fetchErr.Err))
		msg := view.MsgFetchFailed
		if fetchErr.Op == "submit feedback" {
			msg = view.MsgFeedbackFailed
		}
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: msg})
	default:
		h.log(r).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

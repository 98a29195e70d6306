package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"leet_tracker/internal/api/middleware"
	"leet_tracker/internal/app/service"
	"leet_tracker/internal/common"
)

type ProgressHandler struct {
	progressService *service.ProgressService
	requireAuth     func(http.Handler) http.Handler
}

func NewProgressHandler(ps *service.ProgressService, requireAuth func(http.Handler) http.Handler) *ProgressHandler {
	return &ProgressHandler{progressService: ps, requireAuth: requireAuth}
}

func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProgress)

	r.Group(func(authed chi.Router) {
		authed.Use(h.requireAuth)
		authed.Put("/", h.upsertProgress)
		authed.Post("/migrate-usernames", h.migrateUsernames)
	})
}

func (h *ProgressHandler) listProgress(w http.ResponseWriter, r *http.Request) {
	records, err := h.progressService.ListProgress(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, records)
}

type upsertProgressResponse struct {
	ID string `json:"id"`
}

// upsertProgress always writes the caller's own record.
func (h *ProgressHandler) upsertProgress(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	req.Username = username

	id, err := h.progressService.UpsertProgress(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, upsertProgressResponse{ID: id})
}

type migrateUsernamesRequest struct {
	DefaultUsername string `json:"defaultUsername"`
}

func (h *ProgressHandler) migrateUsernames(w http.ResponseWriter, r *http.Request) {
	var req migrateUsernamesRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	res, err := h.progressService.MigrateLegacyUsernames(r.Context(), req.DefaultUsername)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

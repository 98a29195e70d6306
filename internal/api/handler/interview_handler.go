package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leet_tracker/internal/app/service"
	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
)

type InterviewHandler struct {
	interviewService *service.InterviewService
	requireAuth      func(http.Handler) http.Handler
}

func NewInterviewHandler(is *service.InterviewService, requireAuth func(http.Handler) http.Handler) *InterviewHandler {
	return &InterviewHandler{interviewService: is, requireAuth: requireAuth}
}

func (h *InterviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listInterviews) // GET /api/v1/interviews?start=...&end=...
	r.Get("/upcoming", h.listUpcoming)
	r.Get("/month/{year}/{month}", h.listForMonth)

	r.Group(func(authed chi.Router) {
		authed.Use(h.requireAuth)
		authed.Post("/", h.createInterview)
		authed.Patch("/{interviewID}/status", h.setStatus)
		authed.Delete("/{interviewID}", h.deleteInterview)
	})
}

type createInterviewRequest struct {
	Title        string   `json:"title"`
	Date         flexTime `json:"date"`
	Duration     int      `json:"duration"`
	Participants []string `json:"participants"`
	QuestionIDs  []string `json:"questionIds"`
	Notes        *string  `json:"notes,omitempty"`
	MeetingLink  *string  `json:"meetingLink,omitempty"`
}

func (h *InterviewHandler) createInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	iv, err := h.interviewService.CreateInterview(r.Context(), service.CreateInterviewRequest{
		Title:        req.Title,
		Date:         req.Date.Time,
		Duration:     req.Duration,
		Participants: req.Participants,
		QuestionIDs:  req.QuestionIDs,
		Notes:        req.Notes,
		MeetingLink:  req.MeetingLink,
	})
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, iv)
}

func (h *InterviewHandler) listInterviews(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	var (
		interviews []model.InterviewWithQuestions
		err        error
	)
	switch {
	case startStr == "" && endStr == "":
		interviews, err = h.interviewService.ListInterviews(r.Context())
	case startStr == "" || endStr == "":
		common.RespondWithError(w, http.StatusBadRequest, "start and end must be given together")
		return
	default:
		var start, end time.Time
		if start, err = parseTime(startStr); err != nil {
			common.RespondWithDomainError(w, err)
			return
		}
		if end, err = parseTime(endStr); err != nil {
			common.RespondWithDomainError(w, err)
			return
		}
		interviews, err = h.interviewService.ListInterviewsByDateRange(r.Context(), start, end)
	}
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.interviewService.ListUpcomingInterviews(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) listForMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid month")
		return
	}

	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid time zone: "+tz)
			return
		}
	}

	interviews, err := h.interviewService.ListInterviewsForMonth(r.Context(), year, time.Month(month), loc)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateInterviewStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	iv, err := h.interviewService.SetInterviewStatus(r.Context(), chi.URLParam(r, "interviewID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, iv)
}

func (h *InterviewHandler) deleteInterview(w http.ResponseWriter, r *http.Request) {
	if err := h.interviewService.DeleteInterview(r.Context(), chi.URLParam(r, "interviewID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"leet_tracker/internal/app/service"
	"leet_tracker/internal/common"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	requireAuth     func(http.Handler) http.Handler
}

func NewQuestionHandler(qs *service.QuestionService, requireAuth func(http.Handler) http.Handler) *QuestionHandler {
	return &QuestionHandler{questionService: qs, requireAuth: requireAuth}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listQuestions)
	r.Get("/progress", h.listQuestionsWithProgress) // ?user= when anonymous
	r.Get("/summary", h.progressSummary)
	r.Get("/slug/{slug}", h.getQuestionBySlug)
	r.Get("/{questionID}", h.getQuestion)

	r.Group(func(authed chi.Router) {
		authed.Use(h.requireAuth)
		authed.Post("/", h.addQuestion)
	})
}

// RegisterCompanyRoutes mounts the company listing derived from questions.
func (h *QuestionHandler) RegisterCompanyRoutes(r chi.Router) {
	r.Get("/", h.listCompanies)
}

func (h *QuestionHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req service.AddQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	q, err := h.questionService.AddQuestion(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.ListQuestions(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) listQuestionsWithProgress(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.ListQuestionsWithProgress(r.Context(), currentUser(r))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) progressSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.questionService.ProgressSummary(r.Context(), currentUser(r))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *QuestionHandler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionService.GetQuestion(r.Context(), chi.URLParam(r, "questionID"), currentUser(r))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) getQuestionBySlug(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionService.GetQuestionBySlug(r.Context(), chi.URLParam(r, "slug"), currentUser(r))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.questionService.ListCompanies(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, companies)
}

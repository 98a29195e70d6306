package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"leet_tracker/internal/api/handler"
	"leet_tracker/internal/api/middleware"
	"leet_tracker/internal/app/service"
	"leet_tracker/internal/common/security"
	"leet_tracker/internal/platform/logger"
)

type Services struct {
	Auth       *service.AuthService
	Questions  *service.QuestionService
	Progress   *service.ProgressService
	Interviews *service.InterviewService
}

func NewRouter(svc Services, tokens *security.TokenIssuer, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies "Authorization: Bearer T" when present; reads stay public.
	r.Use(jwtauth.Verifier(tokens.Auth()))
	r.Use(middleware.CurrentUser(svc.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	requireAuth := middleware.Authenticator(svc.Auth)

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth)
		v1.Route("/auth", authHandler.RegisterRoutes)

		questionHandler := handler.NewQuestionHandler(svc.Questions, requireAuth)
		v1.Route("/questions", questionHandler.RegisterRoutes)
		v1.Route("/companies", questionHandler.RegisterCompanyRoutes)

		progressHandler := handler.NewProgressHandler(svc.Progress, requireAuth)
		v1.Route("/progress", progressHandler.RegisterRoutes)

		interviewHandler := handler.NewInterviewHandler(svc.Interviews, requireAuth)
		v1.Route("/interviews", interviewHandler.RegisterRoutes)
	})

	return r
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"judge_client/internal/api/handler"
	"judge_client/internal/app/service"
	"judge_client/internal/common"
	"judge_client/internal/common/security"
	"judge_client/internal/domain/model"
)

type languageInfo struct {
	ID        model.Language `json:"id"`
	Name      string         `json:"name"`
	Extension string         `json:"extension"`
}

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	submissionService *service.SubmissionService,
	judgeService *service.JudgeService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Searches for a token in "Authorization: Bearer T" and puts the
	// verification result in the context for the authenticators.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Route("/api", func(api chi.Router) {
		// A degraded judge answers 503 with the full body.
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			health := judgeService.Health()
			status := http.StatusOK
			if !health.Healthy() {
				status = http.StatusServiceUnavailable
			}
			common.RespondWithJSON(w, status, health)
		})

		api.Get("/languages", func(w http.ResponseWriter, r *http.Request) {
			languages := make([]languageInfo, 0, len(model.Languages))
			for _, l := range model.Languages {
				languages = append(languages, languageInfo{ID: l.ID, Name: l.Name, Extension: l.Extension})
			}
			common.RespondWithJSON(w, http.StatusOK, languages)
		})

		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		handler.NewProblemHandler(problemService).RegisterRoutes(api)
		handler.NewSubmissionHandler(submissionService).RegisterRoutes(api)
	})

	return r
}

// requestLogger logs one line per request through slog. chi's RequestID
// adopts the client's X-Request-ID when one is sent.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(started),
					"request_id", chiMiddleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

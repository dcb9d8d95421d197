package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/importer"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

type Deps struct {
	Log         *logger.Logger
	DB          *sql.DB
	Auth        *auth.AuthService
	Login       auth.LoginOptions
	Quizzes     *quiz.Service
	Imports     *importer.Service
	Blobs       storage.BlobStore // optional
	CORSOrigins []string
	Timeout     time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	log := d.Log

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, AccessLog(log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Login, log))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB != nil {
			if err := d.DB.PingContext(r.Context()); err != nil {
				log.Warn("readiness check failed", "error", err)
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	// Protected API (JWT -> subject and role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.Route("/admin", func(ar chi.Router) {
			ar.Use(rbac.Require(rbac.PermQuizImport))
			ar.Get("/imports/template", TemplateHandler(log))
			ar.Post("/imports", UploadImportHandler(d.Imports, log))
			ar.Get("/imports/{key}", GetImportHandler(d.Imports, log))
			ar.Post("/imports/{key}/confirm", ConfirmImportHandler(d.Imports, log))
			if d.Blobs != nil {
				ar.Route("/uploads", func(ur chi.Router) { MountArchive(ur, d.Blobs, log) })
			}
			if d.DB != nil {
				ar.With(rbac.Require(rbac.PermEventsView)).Get("/events", ListEventsHandler(d.DB, log))
			}
		})

		pr.With(rbac.Require(rbac.PermQuizView)).Get("/quizzes", ListQuizzesHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermQuizView)).Get("/quizzes/{quizID}", GetQuizHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermQuizView)).Get("/categories", ListCategoriesHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermQuizView)).Get("/stats", SiteStatsHandler(d.Quizzes, log))

		pr.With(rbac.Require(rbac.PermAttemptCreate)).
			Post("/quizzes/{quizID}/attempts", StartAttemptHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermAttemptSubmit)).
			Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermAttemptViewOwn)).
			Get("/attempts/{attemptID}", GetAttemptHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermAttemptViewOwn)).
			Get("/attempts", ListAttemptsHandler(d.Quizzes, log))
		pr.With(rbac.Require(rbac.PermAttemptViewOwn)).
			Get("/me/stats", StatsHandler(d.Quizzes, log))
	})

	return r
}

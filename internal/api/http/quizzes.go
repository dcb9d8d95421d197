package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// GET /quizzes?category=<slug>&limit=50&offset=0
func ListQuizzesHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := svc.ListQuizzes(r.Context(), quiz.ListOpts{
			CategorySlug: strings.TrimSpace(q.Get("category")),
			Limit:        parseIntDefault(q.Get("limit"), 50),
			Offset:       parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}
func GetQuizHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := quizIDParam(w, r)
		if !ok {
			return
		}
		qz, err := svc.PublishedQuiz(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, qz)
	}
}

// GET /categories
func ListCategoriesHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.Categories(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, cats)
	}
}

// GET /stats
func SiteStatsHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.SiteStats(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}

func quizIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "quizID"), 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusNotFound, errorBody{quiz.ErrQuizNotFound.Error()})
		return 0, false
	}
	return id, true
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type attemptView struct {
	Attempt   quiz.Attempt           `json:"attempt"`
	Status    string                 `json:"status"`
	Questions []quiz.SampledQuestion `json:"questions,omitempty"`
	Answers   []quiz.Answer          `json:"answers,omitempty"`
}

// POST /quizzes/{quizID}/attempts
func StartAttemptHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := quizIDParam(w, r)
		if !ok {
			return
		}
		a, qs, err := svc.Start(r.Context(), auth.SubjectFromContext(r.Context()), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusCreated, attemptView{Attempt: a, Status: a.Status(), Questions: qs})
	}
}

// POST /attempts/{attemptID}/submit  {"responses": {"<question id>": [choice ids]}}
func SubmitAttemptHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Responses map[string][]int64 `json:"responses"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{"bad json"})
			return
		}
		responses := make(map[int64][]int64, len(req.Responses))
		for k, v := range req.Responses {
			qid, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, errorBody{"bad question id: " + k})
				return
			}
			responses[qid] = v
		}
		a, answers, err := svc.Submit(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "attemptID"), responses)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, attemptView{Attempt: a, Status: a.Status(), Answers: answers})
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, answers, err := svc.Result(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, attemptView{Attempt: a, Status: a.Status(), Answers: answers})
	}
}

// GET /attempts?limit=50&offset=0 (caller's own attempts)
func ListAttemptsHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := svc.ListAttempts(r.Context(), auth.SubjectFromContext(r.Context()),
			parseIntDefault(q.Get("limit"), 50), parseIntDefault(q.Get("offset"), 0))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /me/stats
func StatsHandler(svc *quiz.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}

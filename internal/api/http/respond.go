package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-quiz/internal/importer"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/staging"
)

const msgPreviewGone = "preview expired or not found, please upload again"

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors to status codes; anything unrecognised is
// logged and reported as 500 without details.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case importer.IsInvalidInput(err):
		respondJSON(w, http.StatusBadRequest, errorBody{err.Error()})
	case errors.Is(err, staging.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{msgPreviewGone})
	case errors.Is(err, quiz.ErrQuizNotFound), errors.Is(err, quiz.ErrAttemptNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{err.Error()})
	case errors.Is(err, quiz.ErrAlreadyCompleted):
		respondJSON(w, http.StatusConflict, errorBody{err.Error()})
	default:
		log.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{"internal error"})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

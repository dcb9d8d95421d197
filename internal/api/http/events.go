package http

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// GET /admin/events?after=<seq>&limit=100
func ListEventsHandler(dbh *sql.DB, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		evs, err := syncx.Since(r.Context(), dbh, after, parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, evs)
	}
}

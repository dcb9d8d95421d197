// Package staging holds parsed import rows between preview and confirm.
package staging

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/importer"
)

const (
	KeyPrefix  = "excel_preview_"
	DefaultTTL = 600 * time.Second
)

// ErrNotFound covers expired, unknown and already-confirmed previews.
var ErrNotFound = errors.New("preview expired or not found")

type Stager = importer.Stager

func newKey() string { return KeyPrefix + uuid.NewString() }

func cloneRows(rows []importer.Row) []importer.Row {
	out := make([]importer.Row, len(rows))
	for i, r := range rows {
		c := make(importer.Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}

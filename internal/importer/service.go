package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

// Stager holds parsed rows between preview and confirm. Take removes the
// entry atomically, so at most one caller ever receives a given key's rows.
type Stager interface {
	Stage(ctx context.Context, rows []Row) (string, error)
	Get(ctx context.Context, key string) ([]Row, error)
	Take(ctx context.Context, key string) ([]Row, time.Time, error)
	Restore(ctx context.Context, key string, rows []Row, expires time.Time) error
}

type Preview struct {
	Key      string `json:"key"`
	RowCount int    `json:"row_count"`
	Rows     []Row  `json:"rows"`
}

// Service runs the upload -> preview -> confirm flow.
type Service struct {
	stager    Stager
	committer *Committer
	blobs     storage.BlobStore // optional
	log       *logger.Logger
}

func NewService(stager Stager, committer *Committer, blobs storage.BlobStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{stager: stager, committer: committer, blobs: blobs, log: log}
}

// Upload parses the file, stages the rows and archives the original bytes
// under imports/<key>/.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (Preview, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Preview{}, fmt.Errorf("read upload: %w", err)
	}
	rows, err := Parse(bytes.NewReader(data), filename)
	if err != nil {
		return Preview{}, err
	}
	key, err := s.stager.Stage(ctx, rows)
	if err != nil {
		return Preview{}, fmt.Errorf("stage preview: %w", err)
	}
	if s.blobs != nil {
		name := filepath.Base(filepath.Clean("/" + filename))
		if _, err := s.blobs.Put(ctx, "imports/"+key+"/"+name, bytes.NewReader(data)); err != nil {
			s.log.Warn("archive upload failed", "key", key, "file", name, "error", err)
		}
	}
	s.log.Info("import staged", "key", key, "file", filename, "rows", len(rows))
	return Preview{Key: key, RowCount: len(rows), Rows: rows}, nil
}

func (s *Service) Preview(ctx context.Context, key string) (Preview, error) {
	rows, err := s.stager.Get(ctx, key)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Key: key, RowCount: len(rows), Rows: rows}, nil
}

// Confirm claims the staged rows and commits them. A failed commit puts the
// preview back under the same key and deadline so the admin can retry.
func (s *Service) Confirm(ctx context.Context, key string) (Result, error) {
	rows, expires, err := s.stager.Take(ctx, key)
	if err != nil {
		return Result{}, err
	}
	res, err := s.committer.Commit(ctx, rows)
	if err != nil {
		s.log.Warn("import rejected", "key", key, "error", err)
		if rerr := s.stager.Restore(context.WithoutCancel(ctx), key, rows, expires); rerr != nil {
			s.log.Error("restore staged preview", "key", key, "error", rerr)
		}
		return Result{}, err
	}
	return res, nil
}

package syncx_test

import (
	"context"
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/db/dbtest"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

func TestAppendAndSince(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()
	repo := syncx.NewEventRepo(h)

	if err := repo.Append(ctx, syncx.TypeImportCommitted, "k1", map[string]int{"rows": 3}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append(ctx, syncx.TypeAttemptSubmitted, "a1", map[string]float64{"score": 6.67}); err != nil {
		t.Fatal(err)
	}

	all, err := syncx.Since(ctx, h, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d events", len(all))
	}
	if all[0].Type != syncx.TypeImportCommitted || string(all[0].Data) != `{"rows":3}` {
		t.Fatalf("first event: %+v", all[0])
	}

	rest, err := syncx.Since(ctx, h, all[0].Seq, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].Key != "a1" {
		t.Fatalf("since first: %+v", rest)
	}
}

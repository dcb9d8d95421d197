package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/db/dbtest"
)

func TestParseDriver(t *testing.T) {
	cases := map[string]db.Driver{
		"":         db.DriverSQLite,
		"sqlite3":  db.DriverSQLite,
		"pgx":      db.DriverPostgres,
		" PG ":     db.DriverPostgres,
		"postgres": db.DriverPostgres,
	}
	for in, want := range cases {
		got, err := db.ParseDriver(in)
		if err != nil || got != want {
			t.Fatalf("ParseDriver(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := db.ParseDriver("mysql"); err == nil {
		t.Fatal("expected error for mysql")
	}
}

func TestSchemaCascades(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := h.ExecContext(ctx, q, args...); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	mustExec(`INSERT INTO categories (id,name,slug) VALUES (1,'Science','science')`)
	mustExec(`INSERT INTO quizzes (id,title,category_id,created_at) VALUES (1,'Q',1,0)`)
	mustExec(`INSERT INTO questions (id,quiz_id,text) VALUES (1,1,'?')`)
	mustExec(`INSERT INTO choices (id,question_id,text,is_correct) VALUES (1,1,'a',1)`)

	// category deletion nulls the quiz's reference
	mustExec(`DELETE FROM categories WHERE id=1`)
	var cat sql.NullInt64
	if err := h.QueryRowContext(ctx, `SELECT category_id FROM quizzes WHERE id=1`).Scan(&cat); err != nil {
		t.Fatal(err)
	}
	if cat.Valid {
		t.Fatalf("category_id should be NULL, got %d", cat.Int64)
	}

	// quiz deletion cascades to questions and choices
	mustExec(`DELETE FROM quizzes WHERE id=1`)
	var n int
	if err := h.QueryRowContext(ctx, `SELECT COUNT(*) FROM choices`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("choices left after quiz delete: %d", n)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, h, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name,slug) VALUES ('x','x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	var n int
	if err := h.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rollback left %d rows", n)
	}
}

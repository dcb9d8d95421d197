package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// SQLStore implements Store on SQLite or Postgres; queries use $N
// placeholders, which both drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(h *sql.DB) *SQLStore { return &SQLStore{db: h} }

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const quizColumns = `q.id, q.title, q.description, q.overview, q.rules, q.topics_covered,
	q.difficulty_label, q.category_id, q.time_limit, q.is_published, q.created_at,
	(SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id)`

type scanner interface{ Scan(dest ...any) error }

func scanQuiz(row scanner) (Quiz, error) {
	var (
		q       Quiz
		catID   sql.NullInt64
		created int64
	)
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Overview, &q.Rules, &q.TopicsCovered,
		&q.DifficultyLabel, &catID, &q.TimeLimit, &q.IsPublished, &created, &q.QuestionCount)
	if err != nil {
		return Quiz{}, err
	}
	if catID.Valid {
		id := catID.Int64
		q.CategoryID = &id
	}
	q.CreatedAt = time.Unix(created, 0).UTC()
	return q, nil
}

func (s *SQLStore) ListPublished(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	args := []any{true}
	where := "q.is_published = $1"
	if opts.CategorySlug != "" {
		args = append(args, opts.CategorySlug)
		where += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(`SELECT %s FROM quizzes q
		LEFT JOIN categories c ON c.id = q.category_id
		WHERE %s
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT $%d OFFSET $%d`, quizColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()
	out := []Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes q WHERE q.id = $1`, id)
	q, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrQuizNotFound
	}
	if err != nil {
		return Quiz{}, fmt.Errorf("get quiz %d: %w", id, err)
	}
	return q, nil
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(qs.id)
		FROM categories c
		JOIN quizzes q ON q.category_id = c.id
		JOIN questions qs ON qs.quiz_id = q.id
		GROUP BY c.id, c.name, c.slug
		HAVING COUNT(qs.id) >= 1
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	out := []CategorySummary{}
	for rows.Next() {
		var c CategorySummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) QuestionsForQuiz(ctx context.Context, quizID int64) ([]Question, error) {
	qs, err := s.queryQuestions(ctx,
		`SELECT id, quiz_id, text, marks, difficulty FROM questions WHERE quiz_id = $1 ORDER BY id`, quizID)
	if err != nil {
		return nil, err
	}
	err = s.attachChoices(ctx, qs,
		`SELECT c.id, c.question_id, c.text, c.is_correct FROM choices c
		 JOIN questions q ON q.id = c.question_id
		 WHERE q.quiz_id = $1 ORDER BY c.id`, quizID)
	return qs, err
}

// QuestionsByID returns the questions in the order of ids; unknown IDs are
// skipped.
func (s *SQLStore) QuestionsByID(ctx context.Context, ids []int64) ([]Question, error) {
	if len(ids) == 0 {
		return []Question{}, nil
	}
	in, args := inList(ids)
	qs, err := s.queryQuestions(ctx,
		`SELECT id, quiz_id, text, marks, difficulty FROM questions WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	if err := s.attachChoices(ctx, qs,
		`SELECT id, question_id, text, is_correct FROM choices WHERE question_id IN (`+in+`) ORDER BY id`, args...); err != nil {
		return nil, err
	}
	byID := make(map[int64]Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *SQLStore) queryQuestions(ctx context.Context, query string, args ...any) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Marks, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) attachChoices(ctx context.Context, qs []Question, query string, args ...any) error {
	idx := make(map[int64]int, len(qs))
	for i, q := range qs {
		idx[q.ID] = i
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list choices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect); err != nil {
			return fmt.Errorf("scan choice: %w", err)
		}
		if i, ok := idx[c.QuestionID]; ok {
			qs[i].Choices = append(qs[i].Choices, c)
		}
	}
	return rows.Err()
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO attempts (id, user_id, quiz_id, score, total_marks, started_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.UserID, a.QuizID, 0.0, a.TotalMarks, a.StartedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		for pos, qid := range a.QuestionIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO attempt_questions (attempt_id, question_id, position) VALUES ($1,$2,$3)`,
				a.ID, qid, pos); err != nil {
				return fmt.Errorf("insert attempt question: %w", err)
			}
		}
		return nil
	})
}

const attemptColumns = `id, user_id, quiz_id, score, total_marks, started_at, completed_at`

func scanAttempt(row scanner) (Attempt, error) {
	var (
		a         Attempt
		started   int64
		completed sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.TotalMarks, &started, &completed); err != nil {
		return Attempt{}, err
	}
	a.StartedAt = time.Unix(started, 0).UTC()
	if completed.Valid {
		t := time.Unix(completed.Int64, 0).UTC()
		a.CompletedAt = &t
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	if err != nil {
		return Attempt{}, fmt.Errorf("get attempt: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id FROM attempt_questions WHERE attempt_id = $1 ORDER BY position`, id)
	if err != nil {
		return Attempt{}, fmt.Errorf("list attempt questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qid int64
		if err := rows.Scan(&qid); err != nil {
			return Attempt{}, fmt.Errorf("scan attempt question: %w", err)
		}
		a.QuestionIDs = append(a.QuestionIDs, qid)
	}
	return a, rows.Err()
}

// CompleteAttempt marks a as completed with a.Score and stores its answers,
// all in one transaction. The completed_at IS NULL guard runs first so that
// racing submitters serialise on the attempt row; the loser gets
// ErrAlreadyCompleted and nothing is written.
func (s *SQLStore) CompleteAttempt(ctx context.Context, a Attempt, answers []Answer) error {
	completed := time.Now().UTC()
	if a.CompletedAt != nil {
		completed = *a.CompletedAt
	}
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE attempts SET score = $1, completed_at = $2 WHERE id = $3 AND completed_at IS NULL`,
			a.Score, completed.Unix(), a.ID)
		if err != nil {
			return fmt.Errorf("complete attempt: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("complete attempt: %w", err)
		}
		if n == 0 {
			return ErrAlreadyCompleted
		}
		for _, ans := range answers {
			if err := insertAnswer(ctx, tx, a.ID, ans); err != nil {
				return err
			}
		}
		return syncx.NewEventRepo(tx).Append(ctx, syncx.TypeAttemptSubmitted, a.ID, map[string]any{
			"user_id":     a.UserID,
			"quiz_id":     a.QuizID,
			"score":       a.Score,
			"total_marks": a.TotalMarks,
		})
	})
}

func insertAnswer(ctx context.Context, q queryer, attemptID string, ans Answer) error {
	var id int64
	err := q.QueryRowContext(ctx,
		`INSERT INTO answers (attempt_id, question_id, is_correct, marks_awarded)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		attemptID, ans.QuestionID, ans.IsCorrect, ans.MarksAwarded).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	for _, cid := range ans.SelectedChoiceIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO answer_selections (answer_id, choice_id) VALUES ($1,$2)`, id, cid); err != nil {
			return fmt.Errorf("insert answer selection: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) ListAnswers(ctx context.Context, attemptID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, is_correct, marks_awarded FROM answers WHERE attempt_id = $1 ORDER BY id`,
		attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := []Answer{}
	idx := map[int64]int{}
	for rows.Next() {
		a := Answer{AttemptID: attemptID, SelectedChoiceIDs: []int64{}}
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.IsCorrect, &a.MarksAwarded); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		idx[a.ID] = len(out)
		out = append(out, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	sel, err := s.db.QueryContext(ctx,
		`SELECT s.answer_id, s.choice_id FROM answer_selections s
		 JOIN answers a ON a.id = s.answer_id
		 WHERE a.attempt_id = $1 ORDER BY s.answer_id, s.choice_id`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer sel.Close()
	for sel.Next() {
		var aid, cid int64
		if err := sel.Scan(&aid, &cid); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		if i, ok := idx[aid]; ok {
			out[i].SelectedChoiceIDs = append(out[i].SelectedChoiceIDs, cid)
		}
	}
	return out, sel.Err()
}

// ListAttempts returns the user's attempts, most recently completed first
// and unfinished ones last.
func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE user_id = $1
		ORDER BY CASE WHEN completed_at IS NULL THEN 1 ELSE 0 END, completed_at DESC, started_at DESC
		LIMIT $2 OFFSET $3`, opts.UserID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) UserStats(ctx context.Context, userID string) (UserStats, error) {
	var st UserStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0)
		FROM attempts WHERE user_id = $1 AND completed_at IS NOT NULL`, userID).
		Scan(&st.CompletedAttempts, &st.AverageScore, &st.BestScore)
	if err != nil {
		return UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return st, nil
}

// SiteStats counts published quizzes, distinct users with any attempt and
// all attempts, started or completed.
func (s *SQLStore) SiteStats(ctx context.Context) (SiteStats, error) {
	var st SiteStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM quizzes WHERE is_published = $1),
		  (SELECT COUNT(DISTINCT user_id) FROM attempts),
		  (SELECT COUNT(*) FROM attempts)`, true).
		Scan(&st.PublishedQuizzes, &st.ActiveUsers, &st.TotalAttempts)
	if err != nil {
		return SiteStats{}, fmt.Errorf("site stats: %w", err)
	}
	return st, nil
}

func (s *SQLStore) WithTx(ctx context.Context, fn func(Tx) error) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		return fn(&sqlTx{tx: tx, events: syncx.NewEventRepo(tx)})
	})
}

type sqlTx struct {
	tx     *sql.Tx
	events *syncx.EventRepo
}

func (t *sqlTx) GetOrCreateCategory(ctx context.Context, name string) (Category, bool, error) {
	c := Category{Name: name}
	err := t.tx.QueryRowContext(ctx, `SELECT id, slug FROM categories WHERE name = $1`, name).Scan(&c.ID, &c.Slug)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Category{}, false, fmt.Errorf("get category %q: %w", name, err)
	}
	slug, err := t.uniqueSlug(ctx, Slugify(name))
	if err != nil {
		return Category{}, false, err
	}
	c.Slug = slug
	if err := t.tx.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1,$2) RETURNING id`, name, slug).Scan(&c.ID); err != nil {
		return Category{}, false, fmt.Errorf("create category %q: %w", name, err)
	}
	return c, true, nil
}

func (t *sqlTx) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for n := 2; ; n++ {
		var one int
		err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE slug = $1`, slug).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (t *sqlTx) GetOrCreateQuiz(ctx context.Context, title string, defaults Quiz) (Quiz, bool, error) {
	q, err := scanQuiz(t.tx.QueryRowContext(ctx,
		`SELECT `+quizColumns+` FROM quizzes q WHERE q.title = $1 ORDER BY q.id LIMIT 1`, title))
	if err == nil {
		return q, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, false, fmt.Errorf("get quiz %q: %w", title, err)
	}
	q = defaults
	q.Title = title
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	var catID any
	if q.CategoryID != nil {
		catID = *q.CategoryID
	}
	err = t.tx.QueryRowContext(ctx,
		`INSERT INTO quizzes (title, description, overview, rules, topics_covered, difficulty_label,
			category_id, time_limit, is_published, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		q.Title, q.Description, q.Overview, q.Rules, q.TopicsCovered, q.DifficultyLabel,
		catID, q.TimeLimit, q.IsPublished, q.CreatedAt.Unix()).Scan(&q.ID)
	if err != nil {
		return Quiz{}, false, fmt.Errorf("create quiz %q: %w", title, err)
	}
	return q, true, nil
}

func (t *sqlTx) CreateQuestion(ctx context.Context, q *Question) error {
	if err := t.tx.QueryRowContext(ctx,
		`INSERT INTO questions (quiz_id, text, marks, difficulty) VALUES ($1,$2,$3,$4) RETURNING id`,
		q.QuizID, q.Text, q.Marks, q.Difficulty).Scan(&q.ID); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	for i := range q.Choices {
		c := &q.Choices[i]
		c.QuestionID = q.ID
		if err := t.tx.QueryRowContext(ctx,
			`INSERT INTO choices (question_id, text, is_correct) VALUES ($1,$2,$3) RETURNING id`,
			c.QuestionID, c.Text, c.IsCorrect).Scan(&c.ID); err != nil {
			return fmt.Errorf("create choice: %w", err)
		}
	}
	return nil
}

func (t *sqlTx) AppendEvent(ctx context.Context, typ, key string, data any) error {
	return t.events.Append(ctx, typ, key, data)
}

func inList(ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(ph, ","), args
}

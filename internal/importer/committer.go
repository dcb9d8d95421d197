package importer

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

const (
	importedDescription = "Imported via Excel"
	importedTimeLimit   = 10 // minutes
)

var choiceColumns = []string{ColA, ColB, ColC, ColD}

// Result summarises one committed batch.
type Result struct {
	Batch             string   `json:"batch"`
	Rows              int      `json:"rows"`
	CategoriesCreated int      `json:"categories_created"`
	QuizzesCreated    int      `json:"quizzes_created"`
	QuestionsCreated  int      `json:"questions_created"`
	ChoicesCreated    int      `json:"choices_created"`
	Quizzes           []string `json:"quizzes"`
}

// rowPlan is a validated row, ready to write.
type rowPlan struct {
	num        int
	category   string
	title      string
	text       string
	choices    [4]string
	correct    map[string]bool
	difficulty string
	marks      int
}

type Committer struct {
	store quiz.Store
	log   *logger.Logger
}

func NewCommitter(store quiz.Store, log *logger.Logger) *Committer {
	if log == nil {
		log = logger.Nop()
	}
	return &Committer{store: store, log: log}
}

// Commit validates every row and then writes them all in one transaction.
// Any error leaves the database untouched.
func (c *Committer) Commit(ctx context.Context, rows []Row) (Result, error) {
	plans := make([]rowPlan, 0, len(rows))
	for i, row := range rows {
		p, err := planRow(i+2, row)
		if err != nil {
			return Result{}, err
		}
		if !anyCorrect(p.correct) {
			c.log.Warn("imported question has no correct choice", "row", p.num, "quiz", p.title)
		}
		plans = append(plans, p)
	}

	res := Result{Batch: uuid.NewString(), Rows: len(plans), Quizzes: []string{}}
	err := c.store.WithTx(ctx, func(tx quiz.Tx) error {
		seen := map[string]bool{}
		for _, p := range plans {
			cat, created, err := tx.GetOrCreateCategory(ctx, p.category)
			if err != nil {
				return err
			}
			if created {
				res.CategoriesCreated++
			}

			qz, created, err := tx.GetOrCreateQuiz(ctx, p.title, quiz.Quiz{
				Description: importedDescription,
				CategoryID:  &cat.ID,
				TimeLimit:   importedTimeLimit,
				IsPublished: true,
			})
			if err != nil {
				return err
			}
			if created {
				res.QuizzesCreated++
			} else if qz.CategoryID == nil || *qz.CategoryID != cat.ID {
				c.log.Debug("existing quiz keeps its category", "row", p.num, "quiz", p.title, "row_category", p.category)
			}
			if !seen[qz.Title] {
				seen[qz.Title] = true
				res.Quizzes = append(res.Quizzes, qz.Title)
			}

			q := quiz.Question{QuizID: qz.ID, Text: p.text, Marks: p.marks, Difficulty: p.difficulty}
			for i, col := range choiceColumns {
				q.Choices = append(q.Choices, quiz.Choice{Text: p.choices[i], IsCorrect: p.correct[col]})
			}
			if err := tx.CreateQuestion(ctx, &q); err != nil {
				return err
			}
			res.QuestionsCreated++
			res.ChoicesCreated += len(q.Choices)
		}
		return tx.AppendEvent(ctx, syncx.TypeImportCommitted, res.Batch, res)
	})
	if err != nil {
		return Result{}, err
	}
	c.log.Info("import committed",
		"batch", res.Batch, "rows", res.Rows, "quizzes_created", res.QuizzesCreated, "questions_created", res.QuestionsCreated)
	return res, nil
}

var requiredCells = []string{ColCategory, ColQuizTitle, ColQuestion, ColA, ColB, ColC, ColD, ColCorrect}

func planRow(num int, row Row) (rowPlan, error) {
	cell := func(col string) string { return strings.TrimSpace(row[col]) }
	for _, col := range requiredCells {
		if cell(col) == "" {
			return rowPlan{}, &MissingFieldError{Row: num, Field: col}
		}
	}
	p := rowPlan{
		num:      num,
		category: cell(ColCategory),
		title:    cell(ColQuizTitle),
		text:     cell(ColQuestion),
		correct:  ParseCorrect(row[ColCorrect]),
	}
	for i, col := range choiceColumns {
		p.choices[i] = cell(col)
	}

	p.difficulty = strings.ToLower(cell(ColDifficulty))
	if p.difficulty == "" {
		p.difficulty = quiz.DifficultyEasy
	}
	if !quiz.ValidDifficulty(p.difficulty) {
		return rowPlan{}, &FormatError{Row: num, Field: ColDifficulty, Value: row[ColDifficulty],
			Err: errors.New("want easy, medium or hard")}
	}

	marks, err := parseMarks(cell(ColMarks))
	if err != nil {
		return rowPlan{}, &FormatError{Row: num, Field: ColMarks, Value: row[ColMarks], Err: err}
	}
	p.marks = marks
	return p, nil
}

// parseMarks accepts a positive integer, also written as an integral float
// ("2.0"). Blank means 1.
func parseMarks(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, errors.New("not a number")
		}
		if f != math.Trunc(f) {
			return 0, errors.New("not a whole number")
		}
		if f > math.MaxInt32 {
			return 0, errors.New("too large")
		}
		n = int(f)
	}
	if n < 1 {
		return 0, errors.New("must be at least 1")
	}
	return n, nil
}

// ParseCorrect turns "a, c" into {"A", "C"}. Whitespace anywhere is ignored
// and empty entries are dropped.
func ParseCorrect(s string) map[string]bool {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(s))
	out := map[string]bool{}
	for _, tok := range strings.Split(s, ",") {
		if tok != "" {
			out[tok] = true
		}
	}
	return out
}

func anyCorrect(set map[string]bool) bool {
	for _, col := range choiceColumns {
		if set[col] {
			return true
		}
	}
	return false
}

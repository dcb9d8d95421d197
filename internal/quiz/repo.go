package quiz

import "context"

type ListOpts struct {
	CategorySlug string
	Limit        int
	Offset       int
}

type AttemptListOpts struct {
	UserID string
	Limit  int
	Offset int
}

// Store is the read/write surface the attempt lifecycle and the HTTP layer use.
type Store interface {
	ListPublished(ctx context.Context, opts ListOpts) ([]Quiz, error)
	GetQuiz(ctx context.Context, id int64) (Quiz, error) // ErrQuizNotFound
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	QuestionsForQuiz(ctx context.Context, quizID int64) ([]Question, error)
	QuestionsByID(ctx context.Context, ids []int64) ([]Question, error)

	CreateAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error) // ErrAttemptNotFound
	CompleteAttempt(ctx context.Context, a Attempt, answers []Answer) error
	ListAnswers(ctx context.Context, attemptID string) ([]Answer, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
	UserStats(ctx context.Context, userID string) (UserStats, error)
	SiteStats(ctx context.Context) (SiteStats, error)

	WithTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the write surface used by the importer; every call runs inside the
// same database transaction.
type Tx interface {
	// GetOrCreateCategory returns the category with this exact name, creating
	// it (with a unique slug) when absent. created reports whether it was new.
	GetOrCreateCategory(ctx context.Context, name string) (c Category, created bool, err error)
	// GetOrCreateQuiz returns the oldest quiz titled title, or inserts
	// defaults under that title. Existing quizzes are returned unchanged.
	GetOrCreateQuiz(ctx context.Context, title string, defaults Quiz) (q Quiz, created bool, err error)
	// CreateQuestion inserts q and its choices, filling in their IDs.
	CreateQuestion(ctx context.Context, q *Question) error
	AppendEvent(ctx context.Context, typ, key string, data any) error
}

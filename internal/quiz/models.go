package quiz

import "time"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of easy|medium|hard.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategorySummary is a category with the number of questions across its quizzes.
type CategorySummary struct {
	Category
	QuestionCount int `json:"question_count"`
}

type Quiz struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Overview        string    `json:"overview,omitempty"`
	Rules           string    `json:"rules,omitempty"`
	TopicsCovered   string    `json:"topics_covered,omitempty"`
	DifficultyLabel string    `json:"difficulty_label,omitempty"`
	CategoryID      *int64    `json:"category_id,omitempty"`
	TimeLimit       int       `json:"time_limit"` // minutes
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`

	QuestionCount int `json:"question_count,omitempty"`
}

type Question struct {
	ID         int64    `json:"id"`
	QuizID     int64    `json:"quiz_id"`
	Text       string   `json:"text"`
	Marks      int      `json:"marks"`
	Difficulty string   `json:"difficulty"`
	Choices    []Choice `json:"choices,omitempty"`
}

// CorrectIDs returns the IDs of the choices marked correct.
func (q Question) CorrectIDs() []int64 {
	var out []int64
	for _, c := range q.Choices {
		if c.IsCorrect {
			out = append(out, c.ID)
		}
	}
	return out
}

type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

const (
	AttemptStarted   = "started"
	AttemptCompleted = "completed"
)

type Attempt struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	QuizID      int64      `json:"quiz_id"`
	Score       float64    `json:"score"`
	TotalMarks  float64    `json:"total_marks"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	QuestionIDs []int64    `json:"question_ids,omitempty"` // sampled set, presentation order
}

func (a Attempt) Status() string {
	if a.CompletedAt != nil {
		return AttemptCompleted
	}
	return AttemptStarted
}

type Answer struct {
	ID                int64   `json:"id"`
	AttemptID         string  `json:"attempt_id"`
	QuestionID        int64   `json:"question_id"`
	SelectedChoiceIDs []int64 `json:"selected_choice_ids"`
	IsCorrect         bool    `json:"is_correct"`
	MarksAwarded      float64 `json:"marks_awarded"`
}

// SiteStats are the landing-page counters.
type SiteStats struct {
	PublishedQuizzes int `json:"published_quizzes"`
	ActiveUsers      int `json:"active_users"`
	TotalAttempts    int `json:"total_attempts"`
}

// UserStats aggregates a user's completed attempts.
type UserStats struct {
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
	BestScore         float64 `json:"best_score"`
}

package quiz

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
)

// Service runs the attempt lifecycle: started -> completed, exactly once.
type Service struct {
	store   Store
	sampler *Sampler
	grader  grading.Grader
	log     *logger.Logger
	now     func() time.Time
}

type ServiceOption func(*Service)

func WithSampler(s *Sampler) ServiceOption { return func(svc *Service) { svc.sampler = s } }
func WithGrader(g grading.Grader) ServiceOption { return func(svc *Service) { svc.grader = g } }
func WithClock(now func() time.Time) ServiceOption { return func(svc *Service) { svc.now = now } }

func NewService(store Store, log *logger.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logger.Nop()
	}
	svc := &Service{
		store:   store,
		sampler: NewSampler(DefaultSampleSize, nil),
		grader:  grading.NewGrader(),
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// PublishedQuiz returns quiz id if it exists and is published.
func (s *Service) PublishedQuiz(ctx context.Context, id int64) (Quiz, error) {
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if !q.IsPublished {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (s *Service) ListQuizzes(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	return s.store.ListPublished(ctx, opts)
}

func (s *Service) Categories(ctx context.Context) ([]CategorySummary, error) {
	return s.store.ListCategories(ctx)
}

// Start samples the quiz's questions and opens an attempt over them.
func (s *Service) Start(ctx context.Context, userID string, quizID int64) (Attempt, []SampledQuestion, error) {
	if _, err := s.PublishedQuiz(ctx, quizID); err != nil {
		return Attempt{}, nil, err
	}
	all, err := s.store.QuestionsForQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, nil, err
	}
	views := s.sampler.Sample(all)

	a := Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuizID:      quizID,
		StartedAt:   s.now().UTC().Truncate(time.Second),
		QuestionIDs: make([]int64, len(views)),
	}
	for i, q := range views {
		a.QuestionIDs[i] = q.ID
		a.TotalMarks += float64(q.Marks)
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return Attempt{}, nil, err
	}
	s.log.Debug("attempt started", "attempt_id", a.ID, "user_id", userID, "quiz_id", quizID, "questions", len(views))
	return a, views, nil
}

// Submit scores every question shown in the attempt and completes it.
// A question with no entry in responses scores as an empty selection;
// entries for questions outside the attempt are ignored.
func (s *Service) Submit(ctx context.Context, userID, attemptID string, responses map[int64][]int64) (Attempt, []Answer, error) {
	a, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return Attempt{}, nil, err
	}
	if a.CompletedAt != nil {
		return Attempt{}, nil, ErrAlreadyCompleted
	}
	qs, err := s.store.QuestionsByID(ctx, a.QuestionIDs)
	if err != nil {
		return Attempt{}, nil, err
	}
	// Deleting a question cascades out of attempt_questions, but total_marks
	// keeps what the student was shown.
	var present float64
	for _, q := range qs {
		present += float64(q.Marks)
	}
	if present != a.TotalMarks {
		s.log.Warn("sampled questions missing at submit",
			"attempt_id", a.ID, "questions", len(qs), "total_marks", a.TotalMarks, "present_marks", present)
	}

	answers := make([]Answer, 0, len(qs))
	results := make([]grading.Result, 0, len(qs))
	for _, q := range qs {
		selected := dedupe(responses[q.ID])
		r := s.grader.Score(grading.Q{Marks: float64(q.Marks), CorrectIDs: q.CorrectIDs()}, selected)
		results = append(results, r)
		answers = append(answers, Answer{
			AttemptID:         a.ID,
			QuestionID:        q.ID,
			SelectedChoiceIDs: ownChoices(q, selected),
			IsCorrect:         r.IsCorrect,
			MarksAwarded:      r.MarksAwarded,
		})
	}

	completed := s.now().UTC().Truncate(time.Second)
	a.Score = grading.Round(grading.Total(results), 2)
	a.CompletedAt = &completed
	if err := s.store.CompleteAttempt(ctx, a, answers); err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			s.log.Warn("duplicate submit rejected", "attempt_id", a.ID, "user_id", userID)
		}
		return Attempt{}, nil, err
	}
	s.log.Info("attempt submitted", "attempt_id", a.ID, "user_id", userID, "score", a.Score, "total_marks", a.TotalMarks)

	stored, err := s.store.ListAnswers(ctx, a.ID)
	if err != nil {
		return Attempt{}, nil, err
	}
	return a, stored, nil
}

// Result returns a completed or in-progress attempt with its answers.
func (s *Service) Result(ctx context.Context, userID, attemptID string) (Attempt, []Answer, error) {
	a, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return Attempt{}, nil, err
	}
	answers, err := s.store.ListAnswers(ctx, a.ID)
	if err != nil {
		return Attempt{}, nil, err
	}
	return a, answers, nil
}

func (s *Service) ListAttempts(ctx context.Context, userID string, limit, offset int) ([]Attempt, error) {
	return s.store.ListAttempts(ctx, AttemptListOpts{UserID: userID, Limit: limit, Offset: offset})
}

func (s *Service) Stats(ctx context.Context, userID string) (UserStats, error) {
	st, err := s.store.UserStats(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	st.AverageScore = grading.Round(st.AverageScore, 2)
	return st, nil
}

func (s *Service) SiteStats(ctx context.Context) (SiteStats, error) {
	return s.store.SiteStats(ctx)
}

// ownedAttempt hides other users' attempts behind ErrAttemptNotFound.
func (s *Service) ownedAttempt(ctx context.Context, userID, attemptID string) (Attempt, error) {
	if _, err := uuid.Parse(attemptID); err != nil {
		return Attempt{}, ErrAttemptNotFound
	}
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.UserID != userID {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func dedupe(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// ownChoices keeps the selected IDs that belong to q; the rest still count
// against the score but are not stored.
func ownChoices(q Question, selected []int64) []int64 {
	out := make([]int64, 0, len(selected))
	for _, id := range selected {
		for _, c := range q.Choices {
			if c.ID == id {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

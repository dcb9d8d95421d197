package grading

import "math"

// Q is the minimal view of a question needed for scoring.
type Q struct {
	Marks      float64
	CorrectIDs []int64
}

// Result is the outcome of scoring one question.
type Result struct {
	IsCorrect    bool    `json:"is_correct"`
	MarksAwarded float64 `json:"marks_awarded"`
	MaxMarks     float64 `json:"max_marks"`
}

// Grader scores a set of selected choice IDs against a question.
type Grader interface {
	Score(q Q, selected []int64) Result
}

type Option func(*config)

type config struct {
	AllowPartial bool
	Places       int
}

// WithPartialCredit toggles proportional marks for a strict subset of the
// correct choices. Enabled by default.
func WithPartialCredit(b bool) Option { return func(c *config) { c.AllowPartial = b } }

// WithPrecision sets the number of decimal places partial credit is rounded to.
func WithPrecision(places int) Option { return func(c *config) { c.Places = places } }

func NewGrader(opts ...Option) Grader {
	cfg := &config{AllowPartial: true, Places: 2}
	for _, o := range opts {
		o(cfg)
	}
	return multiSelectGrader{allowPartial: cfg.AllowPartial, places: cfg.Places}
}

type multiSelectGrader struct {
	allowPartial bool
	places       int
}

// Score applies, in order:
//
//	nothing selected            -> 0
//	no correct choices defined  -> 0
//	any wrong choice selected   -> 0
//	exactly the correct set     -> full marks, correct
//	strict subset of correct    -> marks * |S|/|C| rounded, not correct
func (g multiSelectGrader) Score(q Q, selected []int64) Result {
	res := Result{MaxMarks: q.Marks}
	resp := toSet(selected)
	correct := toSet(q.CorrectIDs)

	if len(resp) == 0 || len(correct) == 0 {
		return res
	}
	for id := range resp {
		if _, ok := correct[id]; !ok {
			return res
		}
	}
	if setEqual(correct, resp) {
		res.IsCorrect = true
		res.MarksAwarded = q.Marks
		return res
	}
	if g.allowPartial {
		res.MarksAwarded = Round(q.Marks*float64(len(resp))/float64(len(correct)), g.places)
	}
	return res
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Total sums awarded marks across results.
func Total(results []Result) float64 {
	var sum float64
	for _, r := range results {
		sum += r.MarksAwarded
	}
	return sum
}

// helpers

func toSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func setEqual(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

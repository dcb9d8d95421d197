package quiz

import "math/rand/v2"

const DefaultSampleSize = 20

// SampledQuestion is the student-facing view of a question: choices carry no
// correctness flag, only the number of correct choices is exposed so the
// client can render single vs multi select.
type SampledQuestion struct {
	ID           int64        `json:"id"`
	Text         string       `json:"text"`
	Marks        int          `json:"marks"`
	Difficulty   string       `json:"difficulty"`
	Choices      []ChoiceView `json:"choices"`
	CorrectCount int          `json:"correct_count"`
	MultiSelect  bool         `json:"multi_select"`
}

type ChoiceView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// viewOf strips answer keys from q.
func viewOf(q Question) SampledQuestion {
	sq := SampledQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Marks:      q.Marks,
		Difficulty: q.Difficulty,
		Choices:    make([]ChoiceView, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		sq.Choices = append(sq.Choices, ChoiceView{ID: c.ID, Text: c.Text})
		if c.IsCorrect {
			sq.CorrectCount++
		}
	}
	sq.MultiSelect = sq.CorrectCount > 1
	return sq
}

type Sampler struct {
	limit int
	rng   *rand.Rand // nil: package-level generator
}

// NewSampler returns a sampler drawing at most limit questions. A nil src
// uses the runtime's random source.
func NewSampler(limit int, src rand.Source) *Sampler {
	if limit <= 0 {
		limit = DefaultSampleSize
	}
	s := &Sampler{limit: limit}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

func (s *Sampler) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Pick returns min(limit, len(qs)) distinct questions in random order.
// qs is not modified.
func (s *Sampler) Pick(qs []Question) []Question {
	n := len(qs)
	k := min(s.limit, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: the first k slots end up uniformly chosen
	for i := 0; i < k; i++ {
		j := i + s.intN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := make([]Question, k)
	for i := 0; i < k; i++ {
		out[i] = qs[idx[i]]
	}
	return out
}

// Sample is Pick with answer keys stripped.
func (s *Sampler) Sample(qs []Question) []SampledQuestion {
	picked := s.Pick(qs)
	out := make([]SampledQuestion, len(picked))
	for i, q := range picked {
		out[i] = viewOf(q)
	}
	return out
}

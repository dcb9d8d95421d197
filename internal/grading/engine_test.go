package grading

import "testing"

func TestScoreDecisionTable(t *testing.T) {
	g := NewGrader()
	cases := []struct {
		name     string
		q        Q
		selected []int64
		correct  bool
		marks    float64
	}{
		{"empty selection", Q{Marks: 4, CorrectIDs: []int64{1, 2}}, nil, false, 0},
		{"wrong choice only", Q{Marks: 4, CorrectIDs: []int64{1, 2}}, []int64{3}, false, 0},
		{"one right one wrong", Q{Marks: 4, CorrectIDs: []int64{1, 2}}, []int64{1, 3}, false, 0},
		{"exact single", Q{Marks: 5, CorrectIDs: []int64{1}}, []int64{1}, true, 5},
		{"exact multi unordered", Q{Marks: 3, CorrectIDs: []int64{1, 2, 3}}, []int64{3, 1, 2}, true, 3},
		{"two of three", Q{Marks: 10, CorrectIDs: []int64{1, 2, 3}}, []int64{1, 2}, false, 6.67},
		{"one of three", Q{Marks: 10, CorrectIDs: []int64{1, 2, 3}}, []int64{2}, false, 3.33},
		{"half", Q{Marks: 4, CorrectIDs: []int64{1, 2}}, []int64{2}, false, 2},
		{"duplicates collapse", Q{Marks: 4, CorrectIDs: []int64{1, 2}}, []int64{1, 1}, false, 2},
		{"no correct choices", Q{Marks: 4}, []int64{1}, false, 0},
		{"no correct choices nothing selected", Q{Marks: 4}, nil, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Score(tc.q, tc.selected)
			if got.IsCorrect != tc.correct || got.MarksAwarded != tc.marks {
				t.Fatalf("Score = (%v, %v), want (%v, %v)", got.IsCorrect, got.MarksAwarded, tc.correct, tc.marks)
			}
			if got.MaxMarks != tc.q.Marks {
				t.Fatalf("MaxMarks = %v, want %v", got.MaxMarks, tc.q.Marks)
			}
		})
	}
}

func TestScoreExamples(t *testing.T) {
	g := NewGrader()
	// marks=10, correct={A,B,C}, submitted={A,B}
	if r := g.Score(Q{Marks: 10, CorrectIDs: []int64{11, 12, 13}}, []int64{11, 12}); r.IsCorrect || r.MarksAwarded != 6.67 {
		t.Fatalf("partial example: %+v", r)
	}
	// marks=5, correct={A}, submitted={A}
	if r := g.Score(Q{Marks: 5, CorrectIDs: []int64{11}}, []int64{11}); !r.IsCorrect || r.MarksAwarded != 5.0 {
		t.Fatalf("full example: %+v", r)
	}
	// marks=4, correct={A,B}, submitted={A,C}
	if r := g.Score(Q{Marks: 4, CorrectIDs: []int64{11, 12}}, []int64{11, 13}); r.IsCorrect || r.MarksAwarded != 0 {
		t.Fatalf("wrong-pick example: %+v", r)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	g := NewGrader()
	correct := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	// 1 * 1/8 = 0.125 exactly; half rounds up
	if r := g.Score(Q{Marks: 1, CorrectIDs: correct}, []int64{1}); r.MarksAwarded != 0.13 {
		t.Fatalf("0.125 rounded to %v, want 0.13", r.MarksAwarded)
	}
	// 3 * 3/8 = 1.125
	if r := g.Score(Q{Marks: 3, CorrectIDs: correct}, []int64{1, 2, 3}); r.MarksAwarded != 1.13 {
		t.Fatalf("1.125 rounded to %v, want 1.13", r.MarksAwarded)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Fatalf("Round(2.5,0) = %v", got)
	}
	if got := Round(-2.5, 0); got != -3 {
		t.Fatalf("Round(-2.5,0) = %v", got)
	}
}

func TestPartialCreditDisabled(t *testing.T) {
	g := NewGrader(WithPartialCredit(false))
	r := g.Score(Q{Marks: 10, CorrectIDs: []int64{1, 2, 3}}, []int64{1, 2})
	if r.IsCorrect || r.MarksAwarded != 0 {
		t.Fatalf("partial disabled: %+v", r)
	}
	if r := g.Score(Q{Marks: 10, CorrectIDs: []int64{1, 2}}, []int64{2, 1}); !r.IsCorrect || r.MarksAwarded != 10 {
		t.Fatalf("exact match still full marks: %+v", r)
	}
}

func TestWithPrecision(t *testing.T) {
	g := NewGrader(WithPrecision(0))
	if r := g.Score(Q{Marks: 10, CorrectIDs: []int64{1, 2, 3}}, []int64{1, 2}); r.MarksAwarded != 7 {
		t.Fatalf("precision 0: %v", r.MarksAwarded)
	}
}

func TestTotal(t *testing.T) {
	rs := []Result{{MarksAwarded: 6.5}, {MarksAwarded: 0}, {MarksAwarded: 5}}
	if got := Total(rs); got != 11.5 {
		t.Fatalf("Total = %v", got)
	}
}

package quiz

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Science":           "science",
		"General Knowledge": "general-knowledge",
		"  World  History ": "world-history",
		"C++ Basics":        "c-basics",
		"Café Crème":        "cafe-creme",
		"a - b":             "a-b",
		"Hello!World":       "helloworld",
		"--edge_case--":     "edge_case",
		"数学":                "category",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

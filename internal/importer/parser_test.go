package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const header = "Category,Quiz Title,Question,A,B,C,D,Correct,Difficulty,Marks"

func TestParseCSV(t *testing.T) {
	in := header + ",Notes\n" +
		"Science,Physics,What is g?,9.8,8.9,1,0,A,easy,1,first\n" +
		",Physics,orphan row,1,2,3,4,A,easy,1,\n" +
		"  ,Physics,blank category,1,2,3,4,A,easy,1,\n" +
		"History,Rome,Founded?,753 BC,1 AD,,,A\n"
	rows, err := Parse(strings.NewReader(in), "upload.CSV")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Question"] != "What is g?" || rows[0]["Notes"] != "first" {
		t.Fatalf("row 0: %+v", rows[0])
	}
	// short record: missing trailing cells read as ""
	if v, ok := rows[1]["Marks"]; !ok || v != "" {
		t.Fatalf("row 1 marks = %q, present=%v", v, ok)
	}
}

func TestParseHeaderOrderAndWhitespace(t *testing.T) {
	in := " Marks ,Difficulty,Correct,D,C,B,A,Question,Quiz Title,Category\n" +
		"2,hard,B,d,c,b,a,Q?,T,Cat\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["Marks"] != "2" || rows[0]["A"] != "a" || rows[0]["Category"] != "Cat" {
		t.Fatalf("rows: %+v", rows)
	}
}

func TestParseMissingColumn(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Quiz Title,Question,A,B,C,D,Correct,Difficulty,Marks", "Category"},
		{"Category,Quiz Title,Question,A,B,C,D,Difficulty", "Correct"},
		{"category,Quiz Title,Question,A,B,C,D,Correct,Difficulty,Marks", "Category"},
		{"Category,Quiz Title,Question,Option A,B,C,D,Correct,Difficulty,Marks", "A"},
	}
	for _, tc := range cases {
		_, err := ParseCSV(strings.NewReader(tc.header + "\n"))
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Column != tc.want {
			t.Fatalf("header %q: err = %v, want missing %s", tc.header, err, tc.want)
		}
		if ve.Error() != "missing required column: "+tc.want {
			t.Fatalf("message = %q", ve.Error())
		}
	}
}

func TestParseEmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Column != "" {
		t.Fatalf("err = %v", err)
	}
	if !IsInvalidInput(err) {
		t.Fatal("empty file should be invalid input")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeff" + header + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestParseUnsupported(t *testing.T) {
	if _, err := Parse(strings.NewReader(header), "questions.xls"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Parse(strings.NewReader("not a zip"), "questions.xlsx"); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("bad xlsx: %v", err)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	recs := [][]any{
		{"Category", "Quiz Title", "Question", "A", "B", "C", "D", "Correct", "Difficulty", "Marks"},
		{"Science", "Chem", "H2O is?", "Water", "Salt", "Sugar", "Air", "a", "Medium", 3},
		{"", "Chem", "skipped", "1", "2", "3", "4", "A", "easy", 1},
		{"Science", "Chem", "NaCl is?", "Water", "Salt", "Sugar", "Air", "b", "", ""},
	}
	for i, r := range recs {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	rows, err := Parse(&buf, "quiz.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0]["Marks"] != "3" || rows[0]["Difficulty"] != "Medium" || rows[1]["Question"] != "NaCl is?" {
		t.Fatalf("rows: %+v", rows)
	}
}

func TestTemplateReimports(t *testing.T) {
	var x bytes.Buffer
	if err := WriteTemplateXLSX(&x); err != nil {
		t.Fatal(err)
	}
	rows, err := Parse(&x, "template.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 30 || rows[29]["Question"] != "Sample Question 30" || rows[0]["Correct"] != "A" {
		t.Fatalf("xlsx template: %d rows", len(rows))
	}
	for i, r := range rows {
		if _, err := planRow(i+2, r); err != nil {
			t.Fatalf("template row %d: %v", i+2, err)
		}
	}

	var c bytes.Buffer
	if err := WriteTemplateCSV(&c); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.String(), header+"\n") {
		t.Fatalf("csv header: %q", strings.SplitN(c.String(), "\n", 2)[0])
	}
	rows, err = Parse(&c, "template.csv")
	if err != nil || len(rows) != 30 {
		t.Fatalf("csv template: %d rows, err=%v", len(rows), err)
	}
}

func TestParseCorrect(t *testing.T) {
	cases := map[string][]string{
		"A":         {"A"},
		"a, c":      {"A", "C"},
		" B ,\tD ,": {"B", "D"},
		"A,,B":      {"A", "B"},
		"a b , c":   {"AB", "C"},
		"":          {},
		"E":         {"E"},
	}
	for in, want := range cases {
		got := ParseCorrect(in)
		if len(got) != len(want) {
			t.Fatalf("ParseCorrect(%q) = %v, want %v", in, got, want)
		}
		for _, w := range want {
			if !got[w] {
				t.Fatalf("ParseCorrect(%q) = %v, missing %s", in, got, w)
			}
		}
	}
}

func TestParseMarks(t *testing.T) {
	good := map[string]int{"": 1, "1": 1, "3": 3, "2.0": 2, "10": 10}
	for in, want := range good {
		got, err := parseMarks(in)
		if err != nil || got != want {
			t.Fatalf("parseMarks(%q) = %d, %v", in, got, err)
		}
	}
	for _, in := range []string{"0", "-1", "1.5", "two", "NaN", "Inf", "1e12"} {
		if _, err := parseMarks(in); err == nil {
			t.Fatalf("parseMarks(%q) accepted", in)
		}
	}
}

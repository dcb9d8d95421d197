package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ColCategory   = "Category"
	ColQuizTitle  = "Quiz Title"
	ColQuestion   = "Question"
	ColA          = "A"
	ColB          = "B"
	ColC          = "C"
	ColD          = "D"
	ColCorrect    = "Correct"
	ColDifficulty = "Difficulty"
	ColMarks      = "Marks"
)

// RequiredColumns in the order they are checked.
var RequiredColumns = []string{
	ColCategory, ColQuizTitle, ColQuestion, ColA, ColB, ColC, ColD, ColCorrect, ColDifficulty, ColMarks,
}

// Row maps header name to cell text. Extra columns are carried along.
type Row map[string]string

// Parse reads an .xlsx or .csv upload, chosen by filename extension.
func Parse(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseXLSX(r)
	case ".csv":
		return ParseCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ValidationError{}
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return fromRecords(records)
}

func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, &ValidationError{}
	}
	header := make([]string, len(records[0]))
	index := make(map[string]int, len(header))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		header[i] = h
		if _, dup := index[h]; h != "" && !dup {
			index[h] = i
		}
	}
	if len(index) == 0 {
		return nil, &ValidationError{}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &ValidationError{Column: col}
		}
	}

	catIdx := index[ColCategory]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if catIdx >= len(rec) || strings.TrimSpace(rec[catIdx]) == "" {
			continue
		}
		row := make(Row, len(index))
		for name, i := range index {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

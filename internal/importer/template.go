package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	templateSheet = "Questions"
	templateRows  = 30
)

// TemplateRecords is the header row followed by the sample rows.
func TemplateRecords() [][]string {
	out := make([][]string, 0, templateRows+1)
	out = append(out, append([]string(nil), RequiredColumns...))
	for i := 1; i <= templateRows; i++ {
		out = append(out, []string{
			"Science", "Science Master Quiz", fmt.Sprintf("Sample Question %d", i),
			"Option A", "Option B", "Option C", "Option D", "A", "easy", "1",
		})
	}
	return out
}

func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return err
	}
	for i, rec := range TemplateRecords() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(templateSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(templateSheet, "B", "C", 28); err != nil {
		return err
	}
	return f.Write(w)
}

func WriteTemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(TemplateRecords()); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

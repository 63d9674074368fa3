// Package exportsvc renders the grouped results overview as an xlsx workbook.
package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/alama/core/result"
)

const (
	sheetName = "Results"

	// ContentType is the xlsx media type, for HTTP responses.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"Test", "Date", "Total", "Mean", "Student", "Score", "Percent", "Band", "Retest date", "Retest reason",
}

// WriteOverview writes views to w as a single-sheet workbook, one row per
// result. Instance columns (test, date, total, mean) are only filled on each
// group's first row so the sheet reads grouped.
func WriteOverview(w io.Writer, views []result.InstanceView) error {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	if err := writeRow(f, 1, toCells(headers)); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err = f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return errors.Wrap(err, "styling header")
	}

	row := 2
	for _, view := range views {
		for i, res := range view.Results {
			cells := make([]interface{}, len(headers))
			if i == 0 {
				cells[0] = view.Name
				cells[1] = view.Date.String()
				cells[2] = view.Total
				if view.Mean.Valid {
					cells[3] = view.Mean.Float64
				}
			}
			cells[4] = res.StudentName
			if res.Score.Valid {
				cells[5] = res.Score.Float64
			}
			if res.Percent.Valid {
				cells[6] = res.Percent.Float64
			}
			cells[7] = string(res.Band)
			if res.RetestDate.Valid {
				cells[8] = res.RetestDate.Date.String()
			}
			cells[9] = res.RetestReason

			if err = writeRow(f, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeRow(f *excelize.File, row int, cells []interface{}) error {
	for i, val := range cells {
		if val == nil || val == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return errors.Wrap(err, "naming cell")
		}
		if err = f.SetCellValue(sheetName, cell, val); err != nil {
			return errors.Wrap(err, "setting cell value")
		}
	}
	return nil
}

func toCells(vals []string) []interface{} {
	cells := make([]interface{}, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return cells
}

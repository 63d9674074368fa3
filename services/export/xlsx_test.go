package exportsvc

import (
	"bytes"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
)

func TestWriteOverview(t *testing.T) {
	views := []result.InstanceView{
		{
			Name:  "Algebra II",
			Date:  core.NewDate(2024, time.June, 3),
			Total: 50,
			Mean:  null.Float64From(45),
			Results: []result.ResultView{
				{
					TestResult: result.TestResult{
						StudentID:  "std1",
						Name:       "Algebra II",
						Date:       core.NewDate(2024, time.June, 3),
						Score:      null.Float64From(45),
						Total:      50,
						RetestDate: core.NullDateFrom(core.NewDate(2024, time.June, 20)),
					},
					StudentName: "Asha K",
					Percent:     null.Float64From(90),
					Band:        result.BandExcellent,
				},
				{
					TestResult: result.TestResult{
						StudentID: "std2",
						Name:      "Algebra II",
						Date:      core.NewDate(2024, time.June, 3),
						Total:     50,
					},
					StudentName: "Brian O",
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteOverview(&buf, views); err != nil {
		t.Fatalf("WriteOverview() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	if got := cell(rows[0], 0); got != "Test" {
		t.Errorf("header[0] = %q, want %q", got, "Test")
	}

	// first member row carries the instance columns
	wantFirst := []string{"Algebra II", "2024-06-03", "50", "45", "Asha K", "45", "90", "excellent", "2024-06-20"}
	for i, want := range wantFirst {
		if got := cell(rows[1], i); got != want {
			t.Errorf("rows[1][%d] = %q, want %q", i, got, want)
		}
	}

	// second member row leaves them blank
	if got := cell(rows[2], 0); got != "" {
		t.Errorf("rows[2][0] = %q, want blank", got)
	}
	if got := cell(rows[2], 4); got != "Brian O" {
		t.Errorf("rows[2][4] = %q, want %q", got, "Brian O")
	}
	if got := cell(rows[2], 5); got != "" {
		t.Errorf("rows[2][5] = %q, want blank score", got)
	}
}

func TestWriteOverview_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOverview(&buf, nil); err != nil {
		t.Fatalf("WriteOverview() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 1 { // header only
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

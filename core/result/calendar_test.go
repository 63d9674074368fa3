package result

import (
	"testing"
	"time"

	"github.com/trezcool/alama/core"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      time.Month
		wantOffset int // weekday of day 1, 0=Sunday
		wantDays   int
	}{
		{name: "leap February", year: 2024, month: time.February, wantOffset: 4 /* Thursday */, wantDays: 29},
		{name: "plain February", year: 2023, month: time.February, wantOffset: 3 /* Wednesday */, wantDays: 28},
		{name: "December", year: 2024, month: time.December, wantOffset: 0 /* Sunday */, wantDays: 31},
		{name: "century non-leap", year: 1900, month: time.February, wantDays: 28, wantOffset: 4 /* Thursday */},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := MonthGrid(tt.year, tt.month)
			if grid.FirstWeekdayOffset != tt.wantOffset {
				t.Errorf("FirstWeekdayOffset = %d, want %d", grid.FirstWeekdayOffset, tt.wantOffset)
			}
			if grid.DaysInMonth != tt.wantDays {
				t.Errorf("DaysInMonth = %d, want %d", grid.DaysInMonth, tt.wantDays)
			}

			cells := grid.Cells()
			if len(cells) != tt.wantOffset+tt.wantDays {
				t.Fatalf("len(Cells()) = %d, want %d", len(cells), tt.wantOffset+tt.wantDays)
			}
			for i := 0; i < tt.wantOffset; i++ {
				if cells[i] != 0 {
					t.Errorf("Cells()[%d] = %d, want empty", i, cells[i])
				}
			}
			for i := 0; i < tt.wantDays; i++ {
				if got := cells[tt.wantOffset+i]; got != i+1 {
					t.Errorf("Cells()[%d] = %d, want %d", tt.wantOffset+i, got, i+1)
				}
			}
		})
	}
}

func TestCalendar(t *testing.T) {
	rows := []TestResult{
		// test and retest in the same month, different days
		{ID: "1", Name: "Quiz", Date: date(2024, time.June, 3), RetestDate: core.NullDateFrom(date(2024, time.June, 17))},
		// test and retest on the very same day
		{ID: "2", Name: "Drill", Date: date(2024, time.June, 10), RetestDate: core.NullDateFrom(date(2024, time.June, 10))},
		// retest falls in a later month than the test
		{ID: "3", Name: "Exam", Date: date(2024, time.May, 30), RetestDate: core.NullDateFrom(date(2024, time.June, 5))},
		// no retest
		{ID: "4", Name: "Quiz", Date: date(2024, time.June, 3)},
	}

	cal := Calendar(2024, time.June, rows)

	if cal.Grid.Year != 2024 || cal.Grid.Month != time.June {
		t.Errorf("Grid = %d-%d, want 2024-6", cal.Grid.Year, cal.Grid.Month)
	}

	if got := cal.Tests[date(2024, time.June, 3)]; len(got) != 2 {
		t.Errorf("Tests[June 3] len = %d, want 2", len(got))
	}
	if got := cal.Retests[date(2024, time.June, 17)]; len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Retests[June 17] = %v, want row 1", got)
	}

	// same day on both indices
	if got := cal.Tests[date(2024, time.June, 10)]; len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Tests[June 10] = %v, want row 2", got)
	}
	if got := cal.Retests[date(2024, time.June, 10)]; len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Retests[June 10] = %v, want row 2", got)
	}

	// a retest is indexed even when its test date lies in another month
	if got := cal.Retests[date(2024, time.June, 5)]; len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Retests[June 5] = %v, want row 3", got)
	}
	if got := cal.Retests[date(2024, time.June, 3)]; len(got) != 0 {
		t.Errorf("Retests[June 3] = %v, want none", got)
	}
}

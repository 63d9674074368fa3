package result

import (
	"time"

	"github.com/trezcool/alama/core"
)

// Grid describes the day-cell layout of one calendar month.
type Grid struct {
	Year               int        `json:"year"`
	Month              time.Month `json:"month"`
	FirstWeekdayOffset int        `json:"first_weekday_offset"` // 0=Sunday .. 6=Saturday
	DaysInMonth        int        `json:"days_in_month"`
}

func MonthGrid(year int, month time.Month) Grid {
	return Grid{
		Year:               year,
		Month:              month,
		FirstWeekdayOffset: int(core.NewDate(year, month, 1).Weekday()),
		DaysInMonth:        core.DaysIn(year, month),
	}
}

// Cells returns the grid's day cells: FirstWeekdayOffset empty (zero) cells
// aligning day 1 to its weekday column, then one cell per day of the month.
func (g Grid) Cells() []int {
	cells := make([]int, 0, g.FirstWeekdayOffset+g.DaysInMonth)
	for i := 0; i < g.FirstWeekdayOffset; i++ {
		cells = append(cells, 0)
	}
	for day := 1; day <= g.DaysInMonth; day++ {
		cells = append(cells, day)
	}
	return cells
}

// CalendarMonth carries a month grid plus date-keyed indices of one student's
// results. A row appears under Tests on its test date and under Retests on its
// retest date; both may land on the same day, and a retest may fall in a month
// other than its test's.
type CalendarMonth struct {
	Grid    Grid                       `json:"grid"`
	Tests   map[core.Date][]TestResult `json:"tests"`
	Retests map[core.Date][]TestResult `json:"retests"`
}

func Calendar(year int, month time.Month, results []TestResult) CalendarMonth {
	cal := CalendarMonth{
		Grid:    MonthGrid(year, month),
		Tests:   make(map[core.Date][]TestResult),
		Retests: make(map[core.Date][]TestResult),
	}
	for _, r := range results {
		cal.Tests[r.Date] = append(cal.Tests[r.Date], r)
		if r.RetestDate.Valid {
			cal.Retests[r.RetestDate.Date] = append(cal.Retests[r.RetestDate.Date], r)
		}
	}
	return cal
}

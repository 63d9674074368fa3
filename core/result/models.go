package result

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/alama/core"
)

// DefaultTotal is the total possible score assumed when a test is saved without one.
const DefaultTotal = 100

// Score percentage bands, closed below: a percentage sitting exactly on a
// boundary belongs to the higher band.
type Band string

const (
	BandExcellent Band = "excellent" // p >= 90
	BandGood      Band = "good"      // 70 <= p < 90
	BandFair      Band = "fair"      // 50 <= p < 70
	BandPoor      Band = "poor"      // p < 50
)

func BandOf(percent float64) Band {
	switch {
	case percent >= 90:
		return BandExcellent
	case percent >= 70:
		return BandGood
	case percent >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// TestResult is one student's participation in one test sitting.
type TestResult struct {
	ID           string        `json:"id"`
	StudentID    string        `json:"student_id"`
	Name         string        `json:"name"`
	Date         core.Date     `json:"date"`
	Score        null.Float64  `json:"score"` // absent means "not yet entered"
	Total        float64       `json:"total"`
	RetestDate   core.NullDate `json:"retest_date"`
	RetestReason string        `json:"retest_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"` // UTC
}

// Percent returns the score as a percentage of the total possible score.
// A zero total counts as DefaultTotal. Invalid when the score is absent.
func (r TestResult) Percent() null.Float64 {
	if !r.Score.Valid {
		return null.Float64{}
	}
	total := r.Total
	if total == 0 {
		total = DefaultTotal
	}
	return null.Float64From(r.Score.Float64 / total * 100)
}

// InstanceKey identifies a TestInstance: all rows of one test sitting share it.
type InstanceKey struct {
	Name string    `json:"name" query:"name"`
	Date core.Date `json:"date" query:"date"`
}

// TestInstance is the derived grouping of all TestResult rows sharing a key.
// It is a projection, never persisted.
type TestInstance struct {
	Name    string       `json:"name"`
	Date    core.Date    `json:"date"`
	Total   float64      `json:"total"`
	Results []TestResult `json:"results"`
}

// Mean returns the average raw score over member rows that have one.
// Invalid when no member row has a score; never 0 for lack of data.
func (ti TestInstance) Mean() null.Float64 {
	var sum float64
	var n int
	for _, r := range ti.Results {
		if r.Score.Valid {
			sum += r.Score.Float64
			n++
		}
	}
	if n == 0 {
		return null.Float64{}
	}
	return null.Float64From(sum / float64(n))
}

// ResultView is a TestResult decorated for display.
type ResultView struct {
	TestResult
	StudentName string       `json:"student_name"`
	Percent     null.Float64 `json:"percent"`
	Band        Band         `json:"band,omitempty"`
}

// InstanceView is a TestInstance decorated for display.
type InstanceView struct {
	Name    string       `json:"name"`
	Date    core.Date    `json:"date"`
	Total   float64      `json:"total"`
	Mean    null.Float64 `json:"mean"`
	Results []ResultView `json:"results"`
}

// NewTestInstance contains the information needed to record one test sitting.
// Saving writes one TestResult row per entry, all sharing the same name, date
// and total.
type NewTestInstance struct {
	Name    string        `json:"name" validate:"required"`
	Date    core.Date     `json:"date"`
	Total   float64       `json:"total" validate:"omitempty,gt=0"`
	Entries []ResultEntry `json:"entries" validate:"required,min=1,dive"`
}

type ResultEntry struct {
	StudentID    string        `json:"student_id" validate:"required"`
	Score        null.Float64  `json:"score"`
	RetestDate   core.NullDate `json:"retest_date"`
	RetestReason string        `json:"retest_reason"`
}

func (nt *NewTestInstance) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	if nt.Date.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "this field is required"})
	}
	return nil
}

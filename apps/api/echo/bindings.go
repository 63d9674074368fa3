package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
)

// MonthQuery binds the ?year=&month= pair of the calendar endpoints.
// Zero values mean the current month.
type MonthQuery struct {
	Year  int `query:"year"`
	Month int `query:"month"`
}

func (mq *MonthQuery) Bind(ctx echo.Context) error {
	if err := ctx.Bind(mq); err != nil {
		return errors.Wrap(err, "binding to MonthQuery")
	}
	today := core.Today()
	if mq.Year == 0 {
		mq.Year = today.Year()
	}
	if mq.Month == 0 {
		mq.Month = int(today.Month())
	}
	if mq.Month < 1 || mq.Month > 12 {
		return core.NewValidationError(nil, core.FieldError{Field: "month", Error: "must be between 1 and 12"})
	}
	return nil
}

// bindInstanceKey reads the (name, date) test instance key off the query
// string; PUT bodies carry the replacement rows, so the key always travels
// as query parameters.
func bindInstanceKey(ctx echo.Context) (result.InstanceKey, error) {
	name := core.CleanString(ctx.QueryParam("name"))
	rawDate := ctx.QueryParam("date")
	if name == "" || rawDate == "" {
		return result.InstanceKey{}, core.NewValidationError(errors.New("name and date query parameters are required"))
	}
	date, err := core.ParseDate(rawDate)
	if err != nil {
		return result.InstanceKey{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a valid date (2006-01-02)"})
	}
	return result.InstanceKey{Name: name, Date: date}, nil
}

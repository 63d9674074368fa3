package core

import (
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the wire format of all calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without clock or zone. The zero value is no day at all.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)) // normalized
}

// DateOf returns the Date on which t falls, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current Date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return DateOf(t), nil
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns the midnight at the beginning of d, in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) Before(o Date) bool {
	if d.year != o.year {
		return d.year < o.year
	}
	if d.month != o.month {
		return d.month < o.month
	}
	return d.day < o.day
}

func (d Date) After(o Date) bool { return o.Before(d) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalParam binds query/path params; see echo.BindUnmarshaler.
func (d *Date) UnmarshalParam(src string) error {
	return d.UnmarshalText([]byte(src))
}

// DaysIn returns the number of days in the given month.
// Day 0 of the next month normalizes back to the last day of this one.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NullDate is a nullable Date following the conventions of volatiletech/null.
type NullDate struct {
	Date  Date
	Valid bool
}

func NewNullDate(d Date, valid bool) NullDate {
	return NullDate{Date: d, Valid: valid}
}

// NullDateFrom creates a new valid NullDate.
func NullDateFrom(d Date) NullDate {
	return NewNullDate(d, true)
}

func (nd NullDate) MarshalJSON() ([]byte, error) {
	if !nd.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + nd.Date.String() + `"`), nil
}

func (nd *NullDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		nd.Date, nd.Valid = Date{}, false
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.Errorf("unmarshalling date %s", s)
	}
	if err := nd.Date.UnmarshalText([]byte(s[1 : len(s)-1])); err != nil {
		return err
	}
	nd.Valid = true
	return nil
}

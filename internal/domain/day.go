package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// dayLayout is the wire and storage format for Day values.
const dayLayout = "2006-01-02"

// Day is a calendar date with no time-of-day or timezone component.
// Scheduling works in whole days: a card is due on a Day, not at an instant,
// so two users in different timezones each see the rollover at their own
// midnight.
type Day struct {
	Year       int
	Month      time.Month
	DayOfMonth int
}

// NewDay creates a Day from its components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{Year: year, Month: month, DayOfMonth: day}
}

// DayOf returns the calendar date of the given instant in its location.
func DayOf(t time.Time) Day {
	year, month, day := t.Date()
	return Day{Year: year, Month: month, DayOfMonth: day}
}

// Today returns the current date in the given location.
// A nil location means time.Local.
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(time.Now().In(loc))
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidFormat, s)
	}
	return DayOf(t), nil
}

// Time returns midnight of the day in the given location.
// A nil location means UTC.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, loc)
}

// AddDays returns the day n days later. Negative n goes backwards.
// time.Date normalizes overflow, so month and year boundaries are handled.
func (d Day) AddDays(n int) Day {
	return DayOf(time.Date(d.Year, d.Month, d.DayOfMonth+n, 0, 0, 0, 0, time.UTC))
}

// Compare returns -1, 0 or 1 as d is before, equal to or after other.
func (d Day) Compare(other Day) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.DayOfMonth - other.DayOfMonth)
	}
}

// Before reports whether d is before other.
func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }

// After reports whether d is after other.
func (d Day) After(other Day) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same date.
func (d Day) Equal(other Day) bool { return d.Compare(other) == 0 }

// IsZero reports whether d is the zero value.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.DayOfMonth == 0
}

// String returns the date in YYYY-MM-DD form.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.DayOfMonth)
}

// MarshalJSON implements json.Marshaler.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value implements driver.Valuer so a Day maps to a SQL DATE column.
func (d Day) Value() (driver.Value, error) {
	return d.Time(time.UTC), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DayOf(v)
		return nil
	case string:
		day, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = day
		return nil
	case []byte:
		day, err := ParseDay(string(v))
		if err != nil {
			return err
		}
		*d = day
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T into Day", ErrInvalidFormat, src)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

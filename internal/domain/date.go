package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for birthday values
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It serializes to JSON as
// "YYYY-MM-DD" and maps to a DATE column in the store.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string into a Date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err // Invalid format
	}
	return Date{t}, nil
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts a quoted "YYYY-MM-DD" string or null
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil // Leave the zero value in place
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err // Invalid format
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so the store receives a plain date
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// Scan implements sql.Scanner; drivers return DATE columns as time, string or bytes
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil // NULL column, keep the zero value
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// scanString parses the textual forms different drivers produce
func (d *Date) scanString(s string) error {
	// Try the plain date form first, then the timestamp forms
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05-07:00", "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t.Year(), t.Month(), t.Day())
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as Date", s)
}

package dto

import (
	"fmt"
	"time"

	"github.com/tallyhq/tallybook/internal/domain"
)

const dateLayout = "2006-01-02"

// Date is a day-precision date carried as "YYYY-MM-DD" in JSON. Deal dates
// have no meaningful time component, so the API never accepts or emits one.
type Date struct {
	time.Time
}

// NewDate wraps a time as a Date, truncated to its day.
func NewDate(t time.Time) Date {
	return Date{Time: domain.Day(t)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	return Date{Time: t}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a JSON string", s)
	}

	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

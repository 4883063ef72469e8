package json_types

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

const DateLayout = "2006-01-02"

var location atomic.Pointer[time.Location]

// SetLocation sets the timezone calendar dates are anchored to. Defaults to time.Local.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	location.Store(loc)
}

func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	return time.Local
}

// ParseDate keeps only the calendar date of a bare date or a full timestamp
// ("2025-01-28", "2025-01-28T00:00:00.000Z", "2025-01-28 09:30:00") and
// returns midnight of that date in the configured location.
func ParseDate(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	if len(str) < len(DateLayout) {
		return time.Time{}, fmt.Errorf("failed to parse date %q", str)
	}
	if len(str) > len(DateLayout) && str[len(DateLayout)] != 'T' && str[len(DateLayout)] != ' ' {
		return time.Time{}, fmt.Errorf("failed to parse date %q", str)
	}

	parsed, err := time.ParseInLocation(DateLayout, str[:len(DateLayout)], Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", str, err)
	}
	return parsed, nil
}

// Date is a calendar date without time of day. A string that is not a date
// decodes to the zero Date and is kept in Raw.
type Date struct {
	Date time.Time
	Raw  string
}

// Invalid reports whether the decoded value was a string that is not a date.
func (t Date) Invalid() bool {
	return t.Date.IsZero() && t.Raw != ""
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location())}
}

func (t *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Date{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}

	parsedDate, err := ParseDate(str)
	if err != nil {
		*t = Date{Raw: str}
		return nil
	}

	*t = Date{Date: parsedDate}
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(t.Date.Format(DateLayout))
}

func (t Date) String() string {
	return t.Date.Format(DateLayout)
}

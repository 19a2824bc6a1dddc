package leavesplit

import (
	"fmt"
	"regexp"
	"time"
)

var bareDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDateOnly normalizes a date value to local midnight of its calendar
// day. ISO timestamps ("2024-03-10T18:30:00Z") use only the portion before
// the T, parsed as local midnight, so a UTC timestamp never shifts the day.
// Bare "YYYY-MM-DD" strings parse the same way. Anything else goes through
// native parsing and is then truncated to local midnight.
func ParseDateOnly(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	datePart := value
	for i := 0; i < len(value); i++ {
		if value[i] == 'T' {
			datePart = value[:i]
			break
		}
	}

	if bareDatePattern.MatchString(datePart) {
		t, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
		}
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return Midnight(t), nil
}

// Midnight truncates t to local midnight using local calendar fields.
func Midnight(t time.Time) time.Time {
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.Local)
}

// ToISODate formats t as a canonical zero-padded YYYY-MM-DD using local
// calendar fields. This string is the dedup key and the wire format.
func ToISODate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

package sorting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate reads a catalog date. DD.MM.YYYY is tried first, then the
// ISO layouts the backend emits. Empty or unparseable input yields the
// Unix epoch so that such rows sort first ascending; it never fails
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Unix(0, 0).UTC()
	}

	if t, ok := parseDotted(s); ok {
		return t
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// FormatDate renders a DD.MM.YYYY value zero-padded. Empty input is
// "not set"; anything else is returned as given
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not set"
	}
	if t, ok := parseDotted(s); ok {
		return fmt.Sprintf("%02d.%02d.%04d", t.Day(), int(t.Month()), t.Year())
	}
	return s
}

func parseDotted(s string) (time.Time, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || len(parts[2]) != 4 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject overflow such as 31.02.2024
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// CompareDates orders two raw date strings via ParseDate
func CompareDates(a, b string) int {
	return ParseDate(a).Compare(ParseDate(b))
}

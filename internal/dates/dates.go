// Package dates normalizes the heterogeneous date representations that reach
// the domain layer: form input, legacy rows, and API payloads disagree on
// format, and some carry raw timestamps.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order by Parse for string inputs.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// millisecondThreshold distinguishes unix-second from unix-millisecond
// numeric timestamps. Values above it are treated as milliseconds
// (seconds-since-epoch will not reach this magnitude for centuries).
const millisecondThreshold = 1e12

// Parse interprets v as a point in time. It accepts time.Time and
// *time.Time values, strings in any of the known layouts, and numeric
// unix timestamps in seconds or milliseconds. The caller decides what an
// unparseable input means; Parse never substitutes a default.
func Parse(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, fmt.Errorf("dates: zero time")
		}
		return x, nil
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, fmt.Errorf("dates: nil or zero time pointer")
		}
		return *x, nil
	case string:
		return parseString(x)
	case int:
		return fromUnix(int64(x)), nil
	case int64:
		return fromUnix(x), nil
	case float64:
		return fromUnix(int64(x)), nil
	case nil:
		return time.Time{}, fmt.Errorf("dates: nil input")
	default:
		return time.Time{}, fmt.Errorf("dates: unsupported type %T", v)
	}
}

// ParseOrNow is the permissive variant used for form and legacy inputs:
// any value Parse rejects becomes the current time. Call sites that prefer
// rejecting bad input use Parse directly.
func ParseOrNow(v any) time.Time {
	t, err := Parse(v)
	if err != nil {
		return time.Now()
	}
	return t
}

// ParseDateOnly accepts strict YYYY-MM-DD input and returns the date at
// local midnight. Anything else, including partial or padded forms, returns
// false.
func ParseDateOnly(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// Reject rollovers like 2024-02-31.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// Midnight truncates t to local midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BeforeToday reports whether t falls on a calendar day strictly before
// today, at midnight granularity.
func BeforeToday(t time.Time) bool {
	return Midnight(t).Before(Midnight(time.Now()))
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("dates: empty string")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	// Bare numeric strings are unix timestamps.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromUnix(n), nil
	}
	return time.Time{}, fmt.Errorf("dates: unrecognized date %q", s)
}

func fromUnix(n int64) time.Time {
	if n > millisecondThreshold || n < -millisecondThreshold {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

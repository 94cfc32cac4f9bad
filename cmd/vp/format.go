package main

import (
	"fmt"
	"time"
)

// truncate shortens a string to max runes, appending "…" when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// formatDate renders a date as dd/mm/yyyy, or "-" for the zero value.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// formatDatePtr renders an optional date, "-" when unset.
func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

// formatBool renders a flag as "sim"/"não".
func formatBool(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

// formatDias renders a day count, "-" when unset.
func formatDias(d *int) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%dd", *d)
}

package main

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"curto", 10, "curto"},
		{"exatamente", 10, "exatamente"},
		{"um titulo bem comprido", 10, "um titulo…"},
		{"acentuação", 6, "acent…"},
		{"ab", 1, "a"},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(time.Time{}); got != "-" {
		t.Errorf("formatDate(zero) = %q, want -", got)
	}
	d := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	if got := formatDate(d); got != "10/03/2026" {
		t.Errorf("formatDate = %q, want 10/03/2026", got)
	}
}

func TestFormatDatePtr(t *testing.T) {
	if got := formatDatePtr(nil); got != "-" {
		t.Errorf("formatDatePtr(nil) = %q, want -", got)
	}
	d := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := formatDatePtr(&d); got != "01/12/2026" {
		t.Errorf("formatDatePtr = %q, want 01/12/2026", got)
	}
}

func TestFormatBool(t *testing.T) {
	if got := formatBool(true); got != "sim" {
		t.Errorf("formatBool(true) = %q, want sim", got)
	}
	if got := formatBool(false); got != "não" {
		t.Errorf("formatBool(false) = %q, want não", got)
	}
}

func TestFormatDias(t *testing.T) {
	if got := formatDias(nil); got != "-" {
		t.Errorf("formatDias(nil) = %q, want -", got)
	}
	d := 3
	if got := formatDias(&d); got != "3d" {
		t.Errorf("formatDias(3) = %q, want 3d", got)
	}
}

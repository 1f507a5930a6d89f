package match

import (
	"testing"
	"time"
)

func TestParseDateISO_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slash day first", "15/03/2026", "2026-03-15"},
		{"slash unpadded", "5/3/2026", "2026-03-05"},
		{"dash day first", "15-03-2026", "2026-03-15"},
		{"iso", "2026-03-15", "2026-03-15"},
		{"month name with comma", "March 15, 2026", "2026-03-15"},
		{"day month name", "15 March 2026", "2026-03-15"},
		{"abbreviated month", "15 Mar 2026", "2026-03-15"},
		{"noise characters stripped", "15/03/2026*", "2026-03-15"},
		{"surrounding whitespace", "  15 March 2026  ", "2026-03-15"},
		{"rfc3339 last resort", "2026-03-15T10:30:00Z", "2026-03-15"},
		{"garbage", "to be announced", ""},
		{"empty", "", ""},
		{"impossible date", "45/03/2026", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDateISO(tt.input); got != tt.want {
				t.Fatalf("ParseDateISO(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsDeadlineValid(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		want     bool
	}{
		{"future", "2026-04-01", true},
		{"today counts as valid", "15/03/2026", true},
		{"yesterday", "14/03/2026", false},
		{"unparseable is invalid", "whenever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDeadlineValid(tt.deadline, now); got != tt.want {
				t.Fatalf("IsDeadlineValid(%q) = %v, want %v", tt.deadline, got, tt.want)
			}
		})
	}
}

func TestDaysUntilDeadline(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		want     int
	}{
		{"same day is zero", "2026-03-15", 0},
		{"tomorrow", "2026-03-16", 1},
		{"thirty days", "2026-04-14", 30},
		{"past is negative", "2026-03-10", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilDeadline(tt.deadline, now); got != tt.want {
				t.Fatalf("DaysUntilDeadline(%q) = %d, want %d", tt.deadline, got, tt.want)
			}
		})
	}
}

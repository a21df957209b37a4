// ABOUTME: Tests for shared CLI utility functions
// ABOUTME: Covers truncation, relative time formatting, and flag validation

package commands

import (
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"tiny max length", "hello", 2, "he"},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncate_Unicode(t *testing.T) {
	got := truncate("日本語のテキストです", 6)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate should add ellipsis, got %q", got)
	}
	if len([]rune(got)) != 6 {
		t.Errorf("truncated length = %d runes, want 6", len([]rune(got)))
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.t); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatTime(old); !strings.Contains(got, "-") {
		t.Errorf("old time should use date format, got %q", got)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("validatePositiveInt(5) error = %v", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("validatePositiveInt(0) should error")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil {
		t.Error("validatePositiveInt(-1) should error")
	}
}

func TestValidateScore(t *testing.T) {
	for _, ok := range []float64{0, 0.5, 1} {
		if err := validateScore(ok, "min-score"); err != nil {
			t.Errorf("validateScore(%f) error = %v", ok, err)
		}
	}
	for _, bad := range []float64{-0.1, 1.1} {
		if err := validateScore(bad, "min-score"); err == nil {
			t.Errorf("validateScore(%f) should error", bad)
		}
	}
}

package util

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateANSI(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short plain string unchanged", "hello", 10, "hello"},
		{"plain string truncated", "hello world", 8, "hello..."},
		{"very small maxWidth returns ellipsis", "hello", 3, "..."},
		{"maxWidth of 2 returns ellipsis", "hello", 2, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateANSI(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}

	t.Run("styled string keeps width bound", func(t *testing.T) {
		styled := red.Render("recording... 1706709909.12")
		got := TruncateANSI(styled, 12)
		if w := lipgloss.Width(got); w > 12 {
			t.Errorf("width = %d, want <= 12", w)
		}
		if !strings.Contains(got, "...") {
			t.Errorf("result %q should contain an ellipsis", got)
		}
	})

	t.Run("wide characters", func(t *testing.T) {
		got := TruncateANSI("L:↑  R:↘  D-Pad:↗  Btn1 Btn2 Btn3", 10)
		if w := lipgloss.Width(got); w > 10 {
			t.Errorf("width = %d, want <= 10", w)
		}
	})
}

func TestFitANSI(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 5, "ab..."},
		{"abcde", 5, "abcde"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := FitANSI(tt.in, tt.width); got != tt.want {
			t.Errorf("FitANSI(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := HumanBytes(tt.n); got != tt.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{-time.Second, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{65*time.Second + 349*time.Millisecond, "1:05.3"},
		{10 * time.Minute, "10:00.0"},
	}
	for _, tt := range tests {
		if got := Elapsed(tt.d); got != tt.want {
			t.Errorf("Elapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestAxisBar(t *testing.T) {
	tests := []struct {
		name      string
		v         float64
		width     int
		wantFill  int
		wantWidth int
	}{
		{"zero", 0, 11, 0, 11},
		{"full right", 1, 11, 5, 11},
		{"full left", -1, 11, 5, 11},
		{"half", 0.5, 11, 3, 11},
		{"clamped", 4, 11, 5, 11},
		{"minimum width", 1, 1, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ansi.Strip(AxisBar(tt.v, tt.width))
			if got := ansi.StringWidth(bar); got != tt.wantWidth {
				t.Errorf("width = %d, want %d (%q)", got, tt.wantWidth, bar)
			}
			if got := strings.Count(bar, "━"); got != tt.wantFill {
				t.Errorf("filled = %d, want %d (%q)", got, tt.wantFill, bar)
			}
			if !strings.Contains(bar, "┼") {
				t.Errorf("bar %q has no centre mark", bar)
			}
		})
	}
}

func TestAxisBar_Direction(t *testing.T) {
	left := ansi.Strip(AxisBar(-1, 5))
	right := ansi.Strip(AxisBar(1, 5))
	if left != "━━┼──" {
		t.Errorf("AxisBar(-1) = %q, want ━━┼──", left)
	}
	if right != "──┼━━" {
		t.Errorf("AxisBar(1) = %q, want ──┼━━", right)
	}
}

func TestHelpItem(t *testing.T) {
	got := ansi.Strip(HelpItem("s", "start"))
	if got != "[s] start" {
		t.Errorf("HelpItem() = %q, want [s] start", got)
	}
}

// Package styles holds the live view's colors and lipgloss styles.
package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors. All meet WCAG AA contrast on black and on SurfaceColor.
var (
	PrimaryColor   = lipgloss.Color("#A78BFA") // violet-400
	RecordingColor = lipgloss.Color("#F87171") // red-400
	IdleColor      = lipgloss.Color("#10B981") // green
	WarningColor   = lipgloss.Color("#F59E0B") // amber
	ErrorColor     = lipgloss.Color("#F87171")
	MutedColor     = lipgloss.Color("#9CA3AF")
	SurfaceColor   = lipgloss.Color("#1F2937")
	TextColor      = lipgloss.Color("#F9FAFB")
	BorderColor    = lipgloss.Color("#6B7280")
	ActiveColor    = lipgloss.Color("#60A5FA") // blue, pressed buttons and bars
)

// Styles derived from the colors. Rebuilt by Apply.
var (
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Label     lipgloss.Style
	Active    lipgloss.Style
	Recording lipgloss.Style
	Idle      lipgloss.Style
	Panel     lipgloss.Style
	HelpBar   lipgloss.Style
	HelpKey   lipgloss.Style
	StatusBar lipgloss.Style
	BarFill   lipgloss.Style
	BarEmpty  lipgloss.Style
)

func init() {
	rebuild()
}

func rebuild() {
	Title = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Error = lipgloss.NewStyle().Foreground(ErrorColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Label = lipgloss.NewStyle().Foreground(MutedColor).Width(8)
	Active = lipgloss.NewStyle().Bold(true).Foreground(ActiveColor)

	Recording = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(RecordingColor).
		Padding(0, 1)

	Idle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(IdleColor).
		Padding(0, 1)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(IdleColor)

	StatusBar = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Padding(0, 1)

	BarFill = lipgloss.NewStyle().Foreground(ActiveColor)
	BarEmpty = lipgloss.NewStyle().Foreground(BorderColor)
}

// AxisBar draws a centred bar for an axis value in [-1, 1]. The bar is
// width cells wide with the zero point in the middle; the filled part
// extends left for negative values and right for positive ones.
func AxisBar(v float64, width int) string {
	if width < 3 {
		width = 3
	}
	v = math.Max(-1, math.Min(1, v))
	half := width / 2
	n := int(math.Round(math.Abs(v) * float64(half)))

	cells := make([]string, width)
	for i := range cells {
		cells[i] = BarEmpty.Render("─")
	}
	cells[half] = BarEmpty.Render("┼")
	for i := 1; i <= n; i++ {
		idx := half + i
		if v < 0 {
			idx = half - i
		}
		if idx >= 0 && idx < width {
			cells[idx] = BarFill.Render("━")
		}
	}
	return strings.Join(cells, "")
}

// HelpItem renders a key hint like "[s] start".
func HelpItem(key, desc string) string {
	return HelpKey.Render("["+key+"]") + " " + desc
}

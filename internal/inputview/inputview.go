// Package inputview turns raw controller state into the short labels the
// live view shows: stick directions, D-pad direction and pressed buttons.
package inputview

import (
	"fmt"
	"math"
	"strings"
)

// Direction thresholds for analog sticks, in normalized axis units.
const (
	DeadZone          = 0.4
	CardinalThreshold = 0.7
	CrossAxisLimit    = 0.5
	DiagonalThreshold = 0.5
)

// MaxLabelledButtons is how many buttons get a BtnN label.
const MaxLabelledButtons = 12

// Direction is one of eight compass directions, or none.
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

var arrows = [...]string{"", "↑", "↓", "←", "→", "↖", "↗", "↙", "↘"}

// String returns the arrow glyph for d, or "" for None.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(arrows) {
		return ""
	}
	return arrows[d]
}

// StickDirection classifies a stick position. Negative y is up.
func StickDirection(x, y float64) Direction {
	ax, ay := math.Abs(x), math.Abs(y)
	if ax < DeadZone && ay < DeadZone {
		return None
	}
	switch {
	case y < -CardinalThreshold && ax < CrossAxisLimit:
		return Up
	case y > CardinalThreshold && ax < CrossAxisLimit:
		return Down
	case x < -CardinalThreshold && ay < CrossAxisLimit:
		return Left
	case x > CardinalThreshold && ay < CrossAxisLimit:
		return Right
	case x < -DiagonalThreshold && y < -DiagonalThreshold:
		return UpLeft
	case x > DiagonalThreshold && y < -DiagonalThreshold:
		return UpRight
	case x < -DiagonalThreshold && y > DiagonalThreshold:
		return DownLeft
	case x > DiagonalThreshold && y > DiagonalThreshold:
		return DownRight
	}
	return None
}

// DpadDirections returns the directions implied by the four D-pad flags.
// Diagonals come first; a cardinal is only reported when the crossing pair
// is released.
func DpadDirections(up, down, left, right bool) []Direction {
	var dirs []Direction
	if up && left {
		dirs = append(dirs, UpLeft)
	}
	if up && right {
		dirs = append(dirs, UpRight)
	}
	if down && left {
		dirs = append(dirs, DownLeft)
	}
	if down && right {
		dirs = append(dirs, DownRight)
	}
	if up && !(left || right) {
		dirs = append(dirs, Up)
	}
	if down && !(left || right) {
		dirs = append(dirs, Down)
	}
	if left && !(up || down) {
		dirs = append(dirs, Left)
	}
	if right && !(up || down) {
		dirs = append(dirs, Right)
	}
	return dirs
}

// View is the labelled state of one update.
type View struct {
	LeftStick  Direction
	RightStick Direction
	Dpad       []Direction
	Buttons    []string
	Axes       []float64
}

// Describe labels an update. When hasDpad is set the last four buttons are
// the D-pad flags (up, down, left, right) and are not labelled as buttons.
func Describe(axes []float64, buttons []int, hasDpad bool) View {
	var v View
	if len(axes) >= 2 {
		v.LeftStick = StickDirection(axes[0], axes[1])
	}
	if len(axes) >= 4 {
		v.RightStick = StickDirection(axes[2], axes[3])
	}

	plain := buttons
	if hasDpad && len(buttons) >= 4 {
		n := len(buttons)
		v.Dpad = DpadDirections(buttons[n-4] != 0, buttons[n-3] != 0, buttons[n-2] != 0, buttons[n-1] != 0)
		plain = buttons[:n-4]
	}
	for i, pressed := range plain {
		if i >= MaxLabelledButtons {
			break
		}
		if pressed != 0 {
			v.Buttons = append(v.Buttons, fmt.Sprintf("Btn%d", i+1))
		}
	}

	v.Axes = make([]float64, len(axes))
	for i, a := range axes {
		r := math.Round(a*1000) / 1000
		if r == 0 {
			r = 0 // drop negative zero
		}
		v.Axes[i] = r
	}
	return v
}

// Active returns the labels of everything currently held.
func (v View) Active() []string {
	var out []string
	if v.LeftStick != None {
		out = append(out, "L:"+v.LeftStick.String())
	}
	if v.RightStick != None {
		out = append(out, "R:"+v.RightStick.String())
	}
	for _, d := range v.Dpad {
		out = append(out, "D-Pad:"+d.String())
	}
	return append(out, v.Buttons...)
}

// String renders the active labels separated by two spaces.
func (v View) String() string {
	return strings.Join(v.Active(), "  ")
}

// AxesString renders the rounded axes, e.g. "[0.5 -1 0]".
func (v View) AxesString() string {
	parts := make([]string, len(v.Axes))
	for i, a := range v.Axes {
		parts[i] = fmt.Sprintf("%g", a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

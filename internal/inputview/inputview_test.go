package inputview

import (
	"slices"
	"testing"
)

func TestStickDirection(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Direction
	}{
		{"centered", 0, 0, None},
		{"inside dead zone", 0.39, -0.39, None},
		{"up", 0, -1, Up},
		{"down", 0.2, 0.8, Down},
		{"left", -0.9, 0.1, Left},
		{"right", 1, 0, Right},
		{"up-left", -0.6, -0.6, UpLeft},
		{"up-right", 0.6, -0.6, UpRight},
		{"down-left", -0.6, 0.6, DownLeft},
		{"down-right", 0.71, 0.71, DownRight},
		{"outside dead zone but weak", 0.45, -0.45, None},
		{"between thresholds", 0.6, 0.2, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StickDirection(tt.x, tt.y); got != tt.want {
				t.Errorf("StickDirection(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDpadDirections(t *testing.T) {
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  []Direction
	}{
		{"none", false, false, false, false, nil},
		{"up", true, false, false, false, []Direction{Up}},
		{"right", false, false, false, true, []Direction{Right}},
		{"up-left", true, false, true, false, []Direction{UpLeft}},
		{"down-right", false, true, false, true, []Direction{DownRight}},
		{"up and down", true, true, false, false, []Direction{Up, Down}},
		{"all", true, true, true, true, []Direction{UpLeft, UpRight, DownLeft, DownRight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DpadDirections(tt.up, tt.down, tt.left, tt.right)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DpadDirections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	axes := []float64{0, -1, 0.8, 0.8, 0.12345}
	// 14 buttons: 0 and 13 pressed, then up+right on the D-pad
	buttons := make([]int, 18)
	buttons[0] = 1
	buttons[13] = 1
	buttons[14] = 1 // up
	buttons[17] = 1 // right

	v := Describe(axes, buttons, true)
	if v.LeftStick != Up {
		t.Errorf("LeftStick = %v, want Up", v.LeftStick)
	}
	if v.RightStick != DownRight {
		t.Errorf("RightStick = %v, want DownRight", v.RightStick)
	}
	if !slices.Equal(v.Dpad, []Direction{UpRight}) {
		t.Errorf("Dpad = %v, want [UpRight]", v.Dpad)
	}
	// Button 14 is beyond the labelled range.
	if !slices.Equal(v.Buttons, []string{"Btn1"}) {
		t.Errorf("Buttons = %v, want [Btn1]", v.Buttons)
	}
	if v.Axes[4] != 0.123 {
		t.Errorf("Axes[4] = %v, want 0.123", v.Axes[4])
	}
	if got, want := v.String(), "L:↑  R:↘  D-Pad:↗  Btn1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDescribe_NoDpad(t *testing.T) {
	v := Describe([]float64{-0.0001}, []int{0, 1, 0, 1}, false)
	if v.Dpad != nil {
		t.Errorf("Dpad = %v, want nil", v.Dpad)
	}
	if !slices.Equal(v.Buttons, []string{"Btn2", "Btn4"}) {
		t.Errorf("Buttons = %v, want [Btn2 Btn4]", v.Buttons)
	}
	if got := v.AxesString(); got != "[0]" {
		t.Errorf("AxesString() = %q, want [0]", got)
	}
	if v.LeftStick != None {
		t.Errorf("LeftStick = %v, want None with one axis", v.LeftStick)
	}
}

func TestDescribe_Empty(t *testing.T) {
	v := Describe(nil, nil, true)
	if v.String() != "" {
		t.Errorf("String() = %q, want empty", v.String())
	}
	if v.AxesString() != "[]" {
		t.Errorf("AxesString() = %q, want []", v.AxesString())
	}
}

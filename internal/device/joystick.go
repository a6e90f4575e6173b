package device

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/Iron-Ham/padlog/internal/record"
)

// Joystick is a controller exposed through the Linux joystick API
// (/dev/input/jsN). On other platforms Open always fails with
// ErrDeviceUnavailable.
type Joystick struct {
	path    string
	pattern string
	now     func() time.Time

	mu     sync.Mutex
	fd     int
	open   bool
	name   string
	schema *record.Schema
	state  padState
}

// NewJoystick returns an unopened joystick. When path is empty, Open uses
// the first device node matching pattern.
func NewJoystick(path, pattern string) *Joystick {
	return &Joystick{path: path, pattern: pattern, fd: -1, now: time.Now}
}

// Path returns the device node, which is resolved at Open when it was not
// given explicitly.
func (j *Joystick) Path() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.path
}

// Name implements Reader.
func (j *Joystick) Name() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.name == "" {
		return j.path
	}
	return j.name
}

// Schema implements Reader.
func (j *Joystick) Schema() *record.Schema {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.schema
}

// Joystick API event, struct js_event in linux/joystick.h.
const (
	eventSize   = 8
	eventButton = 0x01
	eventAxis   = 0x02
	eventInit   = 0x80
)

// ABS_HAT0X and ABS_HAT0Y in the kernel's axis map.
const (
	absHat0X = 0x10
	absHat0Y = 0x11
)

type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func decodeEvent(b []byte) jsEvent {
	return jsEvent{
		Time:   binary.NativeEndian.Uint32(b[0:4]),
		Value:  int16(binary.NativeEndian.Uint16(b[4:6])),
		Type:   b[6],
		Number: b[7],
	}
}

const (
	slotHatX = -1
	slotHatY = -2
)

// padState is the latest known input of a joystick.
type padState struct {
	// Per raw axis number: index into axes, or one of the hat slots.
	axisSlot []int
	axes     []float64
	buttons  []int
	hasHat   bool
	hatX     int
	hatY     int
}

// newPadState lays out state from the kernel's axis map, which names the
// ABS_* code of each raw axis. Hat axes become D-pad flags rather than axes.
func newPadState(axmap []byte, buttons int) padState {
	st := padState{
		axisSlot: make([]int, len(axmap)),
		buttons:  make([]int, buttons),
	}
	n := 0
	for i, code := range axmap {
		switch code {
		case absHat0X:
			st.axisSlot[i] = slotHatX
			st.hasHat = true
		case absHat0Y:
			st.axisSlot[i] = slotHatY
			st.hasHat = true
		default:
			st.axisSlot[i] = n
			n++
		}
	}
	st.axes = make([]float64, n)
	return st
}

func (st *padState) capabilities() record.Capabilities {
	return record.Capabilities{Axes: len(st.axes), Buttons: len(st.buttons), HasHat: st.hasHat}
}

func (st *padState) apply(ev jsEvent) {
	switch ev.Type &^ eventInit {
	case eventAxis:
		st.applyAxis(int(ev.Number), ev.Value)
	case eventButton:
		st.applyButton(int(ev.Number), ev.Value)
	}
}

func (st *padState) applyAxis(number int, value int16) {
	if number >= len(st.axisSlot) {
		return
	}
	switch slot := st.axisSlot[number]; slot {
	case slotHatX:
		st.hatX = sign(value)
	case slotHatY:
		// The kernel reports up as negative; hats use up = +1.
		st.hatY = -sign(value)
	default:
		st.axes[slot] = NormalizeAxis(value)
	}
}

func (st *padState) applyButton(number int, value int16) {
	if number >= len(st.buttons) {
		return
	}
	st.buttons[number] = b2i(value != 0)
}

func (st *padState) sample(now time.Time) record.Sample {
	s := record.Sample{
		Timestamp: record.Timestamp(now),
		Axes:      append([]float64(nil), st.axes...),
		Buttons:   make([]int, 0, len(st.buttons)+len(record.DpadFields)),
	}
	s.Buttons = append(s.Buttons, st.buttons...)
	if st.hasHat {
		s.Buttons = append(s.Buttons, DpadFlags(st.hatX, st.hatY)...)
	}
	return s
}

// NormalizeAxis maps a raw joystick value to [-1, 1].
func NormalizeAxis(v int16) float64 {
	return math.Max(-1, float64(v)/math.MaxInt16)
}

// DpadFlags converts a hat position (x right-positive, y up-positive) into
// the up, down, left, right flags appended to a Sample's buttons.
func DpadFlags(x, y int) []int {
	return []int{b2i(y == 1), b2i(y == -1), b2i(x == -1), b2i(x == 1)}
}

func sign(v int16) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

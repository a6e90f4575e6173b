package device

import (
	"math"
	"sync"
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// DefaultSimCapabilities resembles a common twin-stick pad.
var DefaultSimCapabilities = record.Capabilities{Axes: 4, Buttons: 12, HasHat: true}

// Simulated is a synthetic controller. Axes follow slow sine waves with a
// per-axis phase, buttons toggle on staggered periods, and the hat walks
// through its eight directions. Output is a pure function of the clock.
type Simulated struct {
	caps record.Capabilities
	now  func() time.Time

	mu     sync.Mutex
	open   bool
	start  time.Time
	schema *record.Schema
}

// NewSimulated returns an unopened synthetic controller with caps.
func NewSimulated(caps record.Capabilities) *Simulated {
	return &Simulated{caps: caps, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *Simulated) WithClock(now func() time.Time) *Simulated {
	s.now = now
	return s
}

// Open implements Reader.
func (s *Simulated) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return errors.NewDeviceError("device already open", errors.ErrInvalidState).WithPath(s.path())
	}
	s.open = true
	s.start = s.now()
	s.schema = record.NewSchema(s.caps)
	return nil
}

// Read implements Reader.
func (s *Simulated) Read() (record.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return record.Sample{}, errors.NewDeviceError("device not open", errors.ErrReadFailure).WithPath(s.path())
	}

	now := s.now()
	t := now.Sub(s.start).Seconds()
	caps := s.schema.Capabilities()

	sample := record.Sample{
		Timestamp: record.Timestamp(now),
		Axes:      make([]float64, caps.Axes),
		Buttons:   make([]int, caps.Buttons, s.schema.ButtonCount()),
	}
	for i := range sample.Axes {
		sample.Axes[i] = math.Round(math.Sin(0.5*t+float64(i)*math.Pi/4)*1000) / 1000
	}
	for i := range sample.Buttons {
		period := 0.5 + 0.25*float64(i)
		sample.Buttons[i] = b2i(math.Mod(t, 2*period) >= period)
	}
	if caps.HasHat {
		step := int(t) % 8
		x := [8]int{0, 1, 1, 1, 0, -1, -1, -1}[step]
		y := [8]int{1, 1, 0, -1, -1, -1, 0, 1}[step]
		sample.Buttons = append(sample.Buttons, DpadFlags(x, y)...)
	}
	return sample, nil
}

// Schema implements Reader.
func (s *Simulated) Schema() *record.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// Name implements Reader.
func (s *Simulated) Name() string {
	return "Simulated Gamepad"
}

// Close implements Reader.
func (s *Simulated) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *Simulated) path() string {
	return "simulated"
}

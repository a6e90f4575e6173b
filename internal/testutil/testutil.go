// Package testutil provides fakes shared by padlog tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// Clock is a manually advanced time source. Its Sleep method advances the
// clock instead of blocking, so loops driven by it run as fast as possible.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(ctx context.Context, now time.Time)
}

// NewClock returns a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// OnSleep registers fn to run after every Sleep with the new time. fn runs
// on the sleeping goroutine and may block on ctx.
func (c *Clock) OnSleep(fn func(ctx context.Context, now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSleep = fn
}

// Sleep advances the clock by d. It matches the Sleeper option shape.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now, fn := c.now, c.onSleep
	c.mu.Unlock()
	if fn != nil {
		fn(ctx, now)
	}
	return ctx.Err()
}

// Sleeps returns the durations passed to Sleep, in call order.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// FakeReader is a scripted device.Reader.
type FakeReader struct {
	// Caps is the capability reported after Open.
	Caps record.Capabilities
	// OpenErr, when set, is returned by Open.
	OpenErr error
	// FailAfter makes Read fail once this many reads have succeeded.
	// Zero never fails.
	FailAfter int
	// Clock stamps samples. Defaults to time.Now.
	Clock func() time.Time
	// DeviceName is returned by Name.
	DeviceName string
	// ReadCost is passed to Elapse on every successful read, usually
	// (*Clock).Advance, so that reads take fake time.
	ReadCost time.Duration
	Elapse   func(time.Duration)

	mu     sync.Mutex
	open   bool
	schema *record.Schema
	reads  int
	opens  int
	closes int
}

// Open implements device.Reader.
func (f *FakeReader) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenErr != nil {
		return f.OpenErr
	}
	f.opens++
	f.open = true
	f.schema = record.NewSchema(f.Caps)
	return nil
}

// Read implements device.Reader. Axis i reads i/10 and button j is pressed
// on odd reads when j is even.
func (f *FakeReader) Read() (record.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return record.Sample{}, errors.NewDeviceError("fake device not open", errors.ErrReadFailure)
	}
	if f.FailAfter > 0 && f.reads >= f.FailAfter {
		return record.Sample{}, errors.NewDeviceError("fake device unplugged", errors.ErrReadFailure)
	}
	f.reads++

	now := time.Now
	if f.Clock != nil {
		now = f.Clock
	}
	s := record.Sample{
		Timestamp: record.Timestamp(now()),
		Axes:      make([]float64, f.Caps.Axes),
		Buttons:   make([]int, f.schema.ButtonCount()),
	}
	for i := range s.Axes {
		s.Axes[i] = float64(i) / 10
	}
	for j := 0; j < f.Caps.Buttons; j++ {
		if j%2 == 0 && f.reads%2 == 1 {
			s.Buttons[j] = 1
		}
	}
	if f.ReadCost > 0 && f.Elapse != nil {
		f.Elapse(f.ReadCost)
	}
	return s, nil
}

// Schema implements device.Reader.
func (f *FakeReader) Schema() *record.Schema {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema
}

// Name implements device.Reader.
func (f *FakeReader) Name() string {
	if f.DeviceName == "" {
		return "Fake Pad"
	}
	return f.DeviceName
}

// Close implements device.Reader.
func (f *FakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.open {
		f.open = false
		f.closes++
	}
	return nil
}

// Reads returns the number of successful reads.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Closes returns how many times an open device was closed.
func (f *FakeReader) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// IsOpen reports whether the device is currently open.
func (f *FakeReader) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

package capture

import (
	"sync"
	"time"

	ring "github.com/zfjagann/golang-ring"
)

// DefaultRateWindow is the number of sample times the meter keeps.
const DefaultRateWindow = 32

// RateMeter measures the achieved sampling rate over a rolling window of
// sample times. Observe is called by the producer, Rate by anyone.
type RateMeter struct {
	mu     sync.Mutex
	window ring.Ring
}

// NewRateMeter returns a meter averaging over the last n samples.
func NewRateMeter(n int) *RateMeter {
	if n < 2 {
		n = 2
	}
	m := &RateMeter{}
	m.window.SetCapacity(n)
	return m
}

// Observe records a sample taken at t.
func (m *RateMeter) Observe(t time.Time) {
	m.mu.Lock()
	m.window.Enqueue(t)
	m.mu.Unlock()
}

// Period returns the mean interval between observed samples, or zero until
// two samples have been seen.
func (m *RateMeter) Period() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.window.ContentSize()
	if n < 2 {
		return 0
	}
	values := m.window.Values()
	first, _ := values[0].(time.Time)
	last, _ := values[len(values)-1].(time.Time)
	return last.Sub(first) / time.Duration(n-1)
}

// Rate returns samples per second, or zero when unknown.
func (m *RateMeter) Rate() float64 {
	p := m.Period()
	if p <= 0 {
		return 0
	}
	return float64(time.Second) / float64(p)
}


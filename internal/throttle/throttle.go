// Package throttle rate-limits live-view events between the capture loop
// and a slower consumer.
//
// A Channel carries two event classes, status text and input updates, each
// behind its own Gate and delivered through a single-slot mailbox. Events
// arriving inside a gate's window are dropped, never queued: the consumer
// sees the latest forwarded value and never a backlog. Push methods are
// called only by the producer and never block.
package throttle

import (
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/padlog/internal/mailbox"
)

// Default gate intervals.
const (
	DefaultStatusInterval = 500 * time.Millisecond
	DefaultUpdateInterval = time.Second / 30
)

// Gate is a minimum-interval filter. It is not safe for concurrent use.
type Gate struct {
	min       time.Duration
	last      time.Time
	forwarded bool
}

// NewGate returns a gate that opens at most once per min.
func NewGate(min time.Duration) *Gate {
	return &Gate{min: min}
}

// Allow reports whether an event at now may pass. The gate only records
// now when it returns true.
func (g *Gate) Allow(now time.Time) bool {
	if g.forwarded && now.Sub(g.last) < g.min {
		return false
	}
	g.last = now
	g.forwarded = true
	return true
}

// Update is the live input state sent to the consumer.
type Update struct {
	Axes    []float64
	Buttons []int
}

// Options configure a Channel.
type Options struct {
	StatusInterval time.Duration
	UpdateInterval time.Duration
	Clock          func() time.Time
}

// Stats counts events offered to and forwarded by a Channel. The Skipped
// counts are forwarded events the consumer never took because a newer one
// replaced them first.
type Stats struct {
	StatusIn      uint64
	StatusOut     uint64
	StatusSkipped uint64
	UpdateIn      uint64
	UpdateOut     uint64
	UpdateSkipped uint64
}

// Channel is the throttled hand-off from producer to consumer.
type Channel struct {
	clock      func() time.Time
	statusGate *Gate
	updateGate *Gate

	status  *mailbox.Slot[string]
	updates *mailbox.Slot[Update]

	// Most recent values dropped by a gate and not superseded by a
	// forwarded one. Producer-owned.
	pendingStatus    string
	hasPendingStatus bool
	pendingUpdate    Update
	hasPendingUpdate bool

	statusIn, statusOut atomic.Uint64
	updateIn, updateOut atomic.Uint64
}

// New returns a Channel. Zero intervals take the defaults.
func New(opts Options) *Channel {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultUpdateInterval
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Channel{
		clock:      clock,
		statusGate: NewGate(opts.StatusInterval),
		updateGate: NewGate(opts.UpdateInterval),
		status:     mailbox.New[string](),
		updates:    mailbox.New[Update](),
	}
}

// PushStatus offers a status event and reports whether it was forwarded.
func (c *Channel) PushStatus(s string) bool {
	c.statusIn.Add(1)
	if !c.statusGate.Allow(c.clock()) {
		c.pendingStatus, c.hasPendingStatus = s, true
		return false
	}
	c.hasPendingStatus = false
	c.statusOut.Add(1)
	c.status.Put(s)
	return true
}

// PushUpdate offers an update event and reports whether it was forwarded.
// The slices are copied only when forwarded.
func (c *Channel) PushUpdate(axes []float64, buttons []int) bool {
	c.updateIn.Add(1)
	u := Update{Axes: axes, Buttons: buttons}
	if !c.updateGate.Allow(c.clock()) {
		c.pendingUpdate, c.hasPendingUpdate = u, true
		return false
	}
	c.hasPendingUpdate = false
	c.updateOut.Add(1)
	c.updates.Put(copyUpdate(u))
	return true
}

// Flush forwards the latest dropped status and update, bypassing the
// gates, so the consumer ends on the final state. Values the gates already
// forwarded are not sent twice.
func (c *Channel) Flush() {
	if c.hasPendingStatus {
		c.hasPendingStatus = false
		c.statusOut.Add(1)
		c.status.Put(c.pendingStatus)
	}
	if c.hasPendingUpdate {
		c.hasPendingUpdate = false
		c.updateOut.Add(1)
		c.updates.Put(copyUpdate(c.pendingUpdate))
	}
}

// ForceStatus forwards s unconditionally. Used for lifecycle transitions
// the consumer must not miss.
func (c *Channel) ForceStatus(s string) {
	c.statusIn.Add(1)
	c.statusOut.Add(1)
	c.hasPendingStatus = false
	c.statusGate.last, c.statusGate.forwarded = c.clock(), true
	c.status.Put(s)
}

// Status is the consumer side of the status stream.
func (c *Channel) Status() *mailbox.Slot[string] {
	return c.status
}

// Updates is the consumer side of the update stream.
func (c *Channel) Updates() *mailbox.Slot[Update] {
	return c.updates
}

// Stats returns event counters. Safe to call from any goroutine.
func (c *Channel) Stats() Stats {
	_, statusSkipped := c.status.Stats()
	_, updateSkipped := c.updates.Stats()
	return Stats{
		StatusIn:      c.statusIn.Load(),
		StatusOut:     c.statusOut.Load(),
		StatusSkipped: statusSkipped,
		UpdateIn:      c.updateIn.Load(),
		UpdateOut:     c.updateOut.Load(),
		UpdateSkipped: updateSkipped,
	}
}

func copyUpdate(u Update) Update {
	return Update{
		Axes:    append([]float64(nil), u.Axes...),
		Buttons: append([]int(nil), u.Buttons...),
	}
}

// Package event defines the events padlog components publish about capture
// sessions, devices, and configuration.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier, e.g. "session.started".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeSessionStarted  = "session.started"
	TypeSessionStopping = "session.stopping"
	TypeSessionFlushed  = "session.flushed"
	TypeSessionStopped  = "session.stopped"
	TypeDeviceFailed    = "device.failed"
	TypeConfigChanged   = "config.changed"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Lifecycle Events
// -----------------------------------------------------------------------------

// SessionStartedEvent is emitted once the producer loop is running.
type SessionStartedEvent struct {
	baseEvent
	SessionID string
	Device    string
	Path      string   // Output file the session will flush to
	Format    string   // csv or parquet
	Columns   []string // Schema field names in order
	Interval  time.Duration
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(sessionID, device, path, format string, columns []string, interval time.Duration) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent(TypeSessionStarted),
		SessionID: sessionID,
		Device:    device,
		Path:      path,
		Format:    format,
		Columns:   columns,
		Interval:  interval,
	}
}

// SessionStoppingEvent is emitted when the producer loop has been asked to
// exit, or has exited on its own after a read failure.
type SessionStoppingEvent struct {
	baseEvent
	SessionID string
	Reason    string // "requested" or "read_failure"
}

// NewSessionStoppingEvent creates a SessionStoppingEvent.
func NewSessionStoppingEvent(sessionID, reason string) SessionStoppingEvent {
	return SessionStoppingEvent{
		baseEvent: newBaseEvent(TypeSessionStopping),
		SessionID: sessionID,
		Reason:    reason,
	}
}

// SessionFlushedEvent is emitted after the terminal write, successful or not.
type SessionFlushedEvent struct {
	baseEvent
	SessionID string
	Path      string
	Records   int
	Duration  time.Duration // Time spent serializing
	Err       error
}

// NewSessionFlushedEvent creates a SessionFlushedEvent.
func NewSessionFlushedEvent(sessionID, path string, records int, took time.Duration, err error) SessionFlushedEvent {
	return SessionFlushedEvent{
		baseEvent: newBaseEvent(TypeSessionFlushed),
		SessionID: sessionID,
		Path:      path,
		Records:   records,
		Duration:  took,
		Err:       err,
	}
}

// SessionStoppedEvent is emitted when a session reaches its terminal state.
type SessionStoppedEvent struct {
	baseEvent
	SessionID string
	Records   int
	Elapsed   time.Duration // Wall time between start and stop
	Err       error         // First error the session ended with, if any
}

// NewSessionStoppedEvent creates a SessionStoppedEvent.
func NewSessionStoppedEvent(sessionID string, records int, elapsed time.Duration, err error) SessionStoppedEvent {
	return SessionStoppedEvent{
		baseEvent: newBaseEvent(TypeSessionStopped),
		SessionID: sessionID,
		Records:   records,
		Elapsed:   elapsed,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Device and Config Events
// -----------------------------------------------------------------------------

// DeviceFailedEvent is emitted when a read fails mid-session.
type DeviceFailedEvent struct {
	baseEvent
	SessionID string
	Device    string
	Err       error
}

// NewDeviceFailedEvent creates a DeviceFailedEvent.
func NewDeviceFailedEvent(sessionID, device string, err error) DeviceFailedEvent {
	return DeviceFailedEvent{
		baseEvent: newBaseEvent(TypeDeviceFailed),
		SessionID: sessionID,
		Device:    device,
		Err:       err,
	}
}

// ConfigChangedEvent is emitted when the config file is modified on disk.
type ConfigChangedEvent struct {
	baseEvent
	Path string
}

// NewConfigChangedEvent creates a ConfigChangedEvent.
func NewConfigChangedEvent(path string) ConfigChangedEvent {
	return ConfigChangedEvent{
		baseEvent: newBaseEvent(TypeConfigChanged),
		Path:      path,
	}
}

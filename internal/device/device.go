// Package device reads game controllers.
//
// A Reader is opened once per capture session. Open fails with
// errors.ErrDeviceUnavailable when no compatible controller is present and
// leaves the Reader untouched in that case. After a successful Open the
// Reader's Schema is fixed; Read returns the latest known state without
// blocking on device activity, and Close is safe to call any number of times.
package device

import (
	"github.com/Iron-Ham/padlog/internal/record"
)

// Reader is a controller opened for sampling.
type Reader interface {
	// Open acquires the device. On failure no state is retained.
	Open() error

	// Read returns one Sample carrying the latest axis and button state.
	// Repeated calls without device activity return the same state.
	Read() (record.Sample, error)

	// Schema returns the field layout derived from device capability at
	// Open. It returns nil before a successful Open.
	Schema() *record.Schema

	// Name returns a human-readable device name.
	Name() string

	// Close releases the device. Subsequent calls are no-ops.
	Close() error
}

// Options selects and configures the device a session reads from.
type Options struct {
	// Path is an explicit joystick node. Empty means the first match of
	// Pattern.
	Path string

	// Pattern is a glob over device nodes, e.g. /dev/input/js*.
	Pattern string

	// Simulate replaces the hardware with a synthetic controller.
	Simulate bool

	// Sim is the capability of the synthetic controller.
	Sim record.Capabilities
}

// DefaultPattern matches Linux joystick API nodes.
const DefaultPattern = "/dev/input/js*"

// New returns an unopened Reader for opts.
func New(opts Options) Reader {
	if opts.Simulate {
		return NewSimulated(opts.Sim)
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	return NewJoystick(opts.Path, pattern)
}

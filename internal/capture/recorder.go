package capture

import (
	"sync"
	"time"

	"github.com/Iron-Ham/padlog/internal/device"
	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/event"
	"github.com/Iron-Ham/padlog/internal/logging"
	"github.com/Iron-Ham/padlog/internal/throttle"
)

// Plan is everything one session needs. A fresh Plan is built for every
// start so that reloaded configuration only affects the next session.
type Plan struct {
	Config      Config
	Reader      device.Reader
	Channel     *throttle.Channel
	FlushOnStop bool
}

// Planner builds the Plan for a session recording to filename. An empty
// filename selects the configured template.
type Planner func(filename string) (Plan, error)

// RecorderOptions configure a Recorder.
type RecorderOptions struct {
	Planner Planner
	Bus     *event.Bus
	Logger  *logging.Logger

	// Session overrides, mostly for tests.
	Clock   func() time.Time
	Sleeper Sleeper
}

// Recorder runs capture sessions one after another. At most one session is
// running at a time; starting while one runs is an error.
type Recorder struct {
	planner Planner
	bus     *event.Bus
	logger  *logging.Logger
	clock   func() time.Time
	sleep   Sleeper

	mu       sync.Mutex
	current  *Session
	channel  *throttle.Channel
	filename string
}

// NewRecorder returns a Recorder with no session.
func NewRecorder(opts RecorderOptions) *Recorder {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Recorder{
		planner: opts.Planner,
		bus:     opts.Bus,
		logger:  logger,
		clock:   opts.Clock,
		sleep:   opts.Sleeper,
	}
}

// Start begins a new session recording to filename.
func (r *Recorder) Start(filename string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(filename)
}

func (r *Recorder) startLocked(filename string) (*Session, error) {
	if r.current != nil && r.current.State() != StateStopped {
		return nil, errors.NewSessionError("a session is already running", errors.ErrInvalidState).
			WithSessionID(r.current.ID()).
			WithState(r.current.State().String())
	}
	if r.planner == nil {
		return nil, errors.NewDeviceError("no session planner configured", errors.ErrDeviceUnavailable)
	}

	plan, err := r.planner(filename)
	if err != nil {
		return nil, err
	}
	s := NewSession(Options{
		Reader:      plan.Reader,
		Channel:     plan.Channel,
		FlushOnStop: plan.FlushOnStop,
		Bus:         r.bus,
		Logger:      r.logger,
		Clock:       r.clock,
		Sleeper:     r.sleep,
	})
	if err := s.Start(plan.Config); err != nil {
		return nil, err
	}
	r.current = s
	r.channel = plan.Channel
	r.filename = filename
	return s, nil
}

// Stop stops the running session and returns its result. It returns nil
// when nothing was started, and the stored result for a session that has
// already ended.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Stop()
}

// Restart stops the running session, if any, and starts a new one with a
// freshly built Plan and the same filename. The old session's flush
// completes before the new session opens the device.
func (r *Recorder) Restart() (*Session, error) {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()

	if s != nil && s.State() != StateIdle {
		if err := s.Stop(); err != nil {
			r.logger.LogError("session ended with error before restart", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Info("restarting session", "filename", r.filename)
	return r.startLocked(r.filename)
}

// Current returns the latest session and its live-view channel. Both are
// nil before the first successful Start.
func (r *Recorder) Current() (*Session, *throttle.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.channel
}

// Running reports whether a session is recording.
func (r *Recorder) Running() bool {
	s, _ := r.Current()
	return s != nil && s.State() == StateRunning
}

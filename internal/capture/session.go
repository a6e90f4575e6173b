package capture

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/padlog/internal/device"
	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/event"
	"github.com/Iron-Ham/padlog/internal/logging"
	"github.com/Iron-Ham/padlog/internal/record"
	"github.com/Iron-Ham/padlog/internal/serialize"
	"github.com/Iron-Ham/padlog/internal/throttle"
)

// State is a session lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Status texts pushed to the live view.
const (
	StatusStarted = "recording started"
	StatusStopped = "stopped"
)

// Stop reasons carried by SessionStoppingEvent.
const (
	ReasonRequested   = "requested"
	ReasonReadFailure = "read_failure"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Options wire a Session to its collaborators. Only Reader is required.
type Options struct {
	Reader device.Reader

	// Channel receives throttled status and update events.
	Channel *throttle.Channel
	// FlushOnStop forwards the last dropped status and update to Channel
	// when the loop exits.
	FlushOnStop bool

	// Bus receives lifecycle events. Handlers run synchronously on the
	// session's goroutines and must not call Stop or Wait.
	Bus    *event.Bus
	Logger *logging.Logger

	// Serializer overrides the one selected by Config.Format.
	Serializer serialize.Serializer

	Clock   func() time.Time
	Sleeper Sleeper

	// ID names the session in logs and events. Generated when empty.
	ID string
}

// Session is one start-to-stop capture run. A Session is used once: after
// it reaches StateStopped a new one is created for the next recording.
type Session struct {
	id      string
	reader  device.Reader
	channel *throttle.Channel
	bus     *event.Bus
	logger  *logging.Logger
	clock   func() time.Time
	sleep   Sleeper
	flushUI bool
	serOver serialize.Serializer

	// opMu serializes Start and Stop. mu guards the fields below and is
	// never held while publishing events.
	opMu    sync.Mutex
	mu      sync.Mutex
	state   State
	cfg     Config
	path    string
	schema  *record.Schema
	ser     serialize.Serializer
	started time.Time
	err     error

	stopFlag atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}

	// records is owned by the producer goroutine until done is closed.
	records []record.Record
	count   atomic.Int64
	rate    *RateMeter
}

// NewSession returns an idle session.
func NewSession(opts Options) *Session {
	s := &Session{
		id:      opts.ID,
		reader:  opts.Reader,
		channel: opts.Channel,
		bus:     opts.Bus,
		logger:  opts.Logger,
		clock:   opts.Clock,
		sleep:   opts.Sleeper,
		flushUI: opts.FlushOnStop,
		serOver: opts.Serializer,
		done:    make(chan struct{}),
		rate:    NewRateMeter(DefaultRateWindow),
	}
	if s.id == "" {
		s.id = generateID()
	}
	if s.logger == nil {
		s.logger = logging.NopLogger()
	}
	s.logger = s.logger.WithSession(s.id)
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.sleep == nil {
		s.sleep = defaultSleeper
	}
	return s
}

// Start opens the device and begins sampling. It is only valid on an idle
// session. On error the session stays idle and nothing is written.
func (s *Session) Start(cfg Config) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if state := s.State(); state != StateIdle {
		return s.stateError("start requires an idle session", state)
	}
	if s.reader == nil {
		return errors.NewDeviceError("no device reader configured", errors.ErrDeviceUnavailable)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ser := s.serOver
	if ser == nil {
		var err error
		if ser, err = serialize.New(cfg.Format); err != nil {
			return err
		}
	}

	now := s.clock()
	path, err := cfg.Path(now)
	if err != nil {
		return err
	}
	// An earlier recording under the same name is never replaced.
	if path, err = serialize.Available(path); err != nil {
		return err
	}

	if err := s.reader.Open(); err != nil {
		s.logger.LogError("device open failed", err)
		return err
	}
	schema := s.reader.Schema()
	if schema == nil {
		_ = s.reader.Close()
		return errors.NewDeviceError("device reported no capabilities", errors.ErrDeviceUnavailable)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.logger = s.logger.WithDevice(s.reader.Name())

	s.mu.Lock()
	s.cfg = cfg
	s.path = path
	s.schema = schema
	s.ser = ser
	s.started = now
	s.cancel = cancel
	s.state = StateRunning
	s.mu.Unlock()

	s.logger.Info("recording started",
		"path", path,
		"format", cfg.Format.String(),
		"interval", cfg.SampleInterval,
		"schema", schema.String(),
	)
	if s.channel != nil {
		s.channel.ForceStatus(StatusStarted)
	}
	s.publish(event.NewSessionStartedEvent(s.id, s.reader.Name(), path, cfg.Format.String(), schema.Names(), cfg.SampleInterval))

	go s.run(ctx, record.NewBuilder(schema))
	return nil
}

// Stop asks the producer loop to exit and blocks until the terminal flush
// has completed. It returns the error the session ended with, if any:
// a read failure, a serialization failure, or both joined. Calling Stop on
// a stopped session returns the same result without writing again.
func (s *Session) Stop() error {
	s.opMu.Lock()
	s.mu.Lock()
	state := s.state
	if state == StateRunning {
		s.state = StateStopping
		s.stopFlag.Store(true)
		s.cancel()
	}
	s.mu.Unlock()

	switch state {
	case StateIdle:
		s.opMu.Unlock()
		return s.stateError("stop requires a started session", state)
	case StateRunning:
		s.logger.Info("stop requested")
		s.publish(event.NewSessionStoppingEvent(s.id, ReasonRequested))
	}
	s.opMu.Unlock()

	<-s.done
	return s.Err()
}

// Wait blocks until the session reaches StateStopped, whether by Stop or by
// a read failure, and returns its result.
func (s *Session) Wait() error {
	if state := s.State(); state == StateIdle {
		return s.stateError("wait requires a started session", state)
	}
	<-s.done
	return s.Err()
}

// Done is closed once the session is stopped and flushed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) run(ctx context.Context, builder *record.Builder) {
	defer close(s.done)

	interval := s.cfg.SampleInterval
	var readErr error
	for !s.stopFlag.Load() {
		iterStart := s.clock()

		sample, err := s.reader.Read()
		if err != nil {
			readErr = err
			break
		}
		s.records = append(s.records, builder.Build(sample))
		s.count.Store(int64(len(s.records)))
		s.rate.Observe(iterStart)

		if s.channel != nil {
			s.channel.PushStatus(s.statusText(sample.Timestamp))
			s.channel.PushUpdate(sample.Axes, sample.Buttons)
		}

		elapsed := s.clock().Sub(iterStart)
		if s.logger.Enabled(slog.LevelDebug) {
			s.logger.Debug("sample", "n", len(s.records), "elapsed", elapsed)
		}
		if remaining := interval - elapsed; remaining > 0 {
			_ = s.sleep(ctx, remaining)
		}
	}

	if readErr != nil {
		s.mu.Lock()
		if s.state == StateRunning {
			s.state = StateStopping
		}
		s.mu.Unlock()
		s.logger.LogError("device read failed", readErr, "records", len(s.records))
		s.publish(event.NewDeviceFailedEvent(s.id, s.reader.Name(), readErr))
		s.publish(event.NewSessionStoppingEvent(s.id, ReasonReadFailure))
	}

	if err := s.reader.Close(); err != nil {
		s.logger.Warn("device close failed", "error", err)
	}

	flushErr := s.flush()

	if s.channel != nil {
		if s.flushUI {
			s.channel.Flush()
		}
		s.channel.ForceStatus(StatusStopped)
	}

	s.mu.Lock()
	s.err = errors.Join(readErr, flushErr)
	s.state = StateStopped
	elapsed := s.clock().Sub(s.started)
	result := s.err
	s.mu.Unlock()

	s.logger.Info("recording stopped", "records", len(s.records), "elapsed", elapsed)
	s.publish(event.NewSessionStoppedEvent(s.id, len(s.records), elapsed, result))
}

// flush hands the record sequence to the serializer. It runs exactly once,
// on the producer goroutine, after the loop has exited.
func (s *Session) flush() error {
	start := s.clock()
	n := len(s.records)

	var err error
	if mkErr := os.MkdirAll(s.cfg.SaveDir, 0o755); mkErr != nil {
		err = errors.NewSerializationError("create save directory", mkErr).
			WithFormat(s.cfg.Format.String()).
			WithPath(s.path).
			WithRecords(n)
	} else {
		err = s.ser.Write(s.records, s.schema, s.path)
	}

	took := s.clock().Sub(start)
	if err != nil {
		s.logger.LogError("flush failed", err, "path", s.path, "records", n)
	} else {
		s.logger.Info("flushed", "path", s.path, "records", n, "took", took)
	}
	s.publish(event.NewSessionFlushedEvent(s.id, s.path, n, took, err))
	return err
}

func (s *Session) statusText(ts float64) string {
	if rate := s.rate.Rate(); rate > 0 {
		return fmt.Sprintf("recording... %.2f (%.1f Hz)", ts, rate)
	}
	return fmt.Sprintf("recording... %.2f", ts)
}

func (s *Session) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *Session) stateError(msg string, state State) error {
	return errors.NewSessionError(msg, errors.ErrInvalidState).
		WithSessionID(s.id).
		WithState(state.String())
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Path returns the output path, known once started.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Schema returns the session's field layout, known once started.
func (s *Session) Schema() *record.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// Config returns the configuration the session was started with.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// StartedAt returns when sampling began.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// RecordCount returns how many records have been buffered so far.
func (s *Session) RecordCount() int {
	return int(s.count.Load())
}

// Records returns the buffered records. It returns nil until the session
// has stopped, since the producer owns the sequence while running.
func (s *Session) Records() []record.Record {
	select {
	case <-s.done:
		return s.records
	default:
		return nil
	}
}

// Rate returns the measured sampling rate in Hz.
func (s *Session) Rate() float64 {
	return s.rate.Rate()
}

// Err returns the session result once stopped.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func defaultSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// generateID creates a short random hex ID
func generateID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

package record

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Iron-Ham/padlog/internal/capture"
	"github.com/Iron-Ham/padlog/internal/event"
	"github.com/Iron-Ham/padlog/internal/logging"
)

// headlessRunner records without the live view. Status lines and the
// save result are printed to out.
type headlessRunner struct {
	rec      *capture.Recorder
	bus      *event.Bus
	out      io.Writer
	duration time.Duration
	logger   *logging.Logger

	// reloads receives config file changes. onReload re-reads the config
	// and returns an error to keep the current session running.
	reloads  <-chan struct{}
	onReload func() error

	mu          sync.Mutex // guards out
	cancelWatch func()
}

func (h *headlessRunner) printf(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, format, args...)
}

// run records until ctx is done, the duration expires or the session ends
// on its own. It returns the result of the last session.
func (h *headlessRunner) run(ctx context.Context, filename string) error {
	if h.bus != nil {
		ids := []string{
			h.bus.Subscribe(event.TypeSessionFlushed, h.onFlushed),
			h.bus.Subscribe(event.TypeDeviceFailed, h.onDeviceFailed),
		}
		defer func() {
			for _, id := range ids {
				h.bus.Unsubscribe(id)
			}
		}()
	}

	s, err := h.rec.Start(filename)
	if err != nil {
		return err
	}
	h.attach()
	defer h.detach()
	h.printf("recording to %s [%s]\n", s.Path(), s.Schema())

	var timeout <-chan time.Time
	if h.duration > 0 {
		timer := time.NewTimer(h.duration)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return h.finish(h.rec.Stop())

		case <-timeout:
			return h.finish(h.rec.Stop())

		case <-s.Done():
			return h.finish(s.Err())

		case <-h.reloads:
			if h.onReload != nil {
				if err := h.onReload(); err != nil {
					h.printf("config reload rejected: %v\n", err)
					continue
				}
			}
			next, err := h.rec.Restart()
			if err != nil {
				return err
			}
			s = next
			h.attach()
			h.printf("config reloaded, recording to %s\n", s.Path())
		}
	}
}

// attach prints the status stream of the current session.
func (h *headlessRunner) attach() {
	h.detach()
	_, ch := h.rec.Current()
	if ch == nil {
		return
	}
	h.cancelWatch = ch.Status().Watch(func(status string) {
		h.printf("%s\n", status)
	})
}

// finish stops watching and prints the status the session ended on, which
// the watcher may not have reached yet.
func (h *headlessRunner) finish(err error) error {
	h.detach()
	if _, ch := h.rec.Current(); ch != nil {
		if status, ok := ch.Status().Take(); ok {
			h.printf("%s\n", status)
		}
	}
	return err
}

func (h *headlessRunner) detach() {
	if h.cancelWatch != nil {
		h.cancelWatch()
		h.cancelWatch = nil
	}
}

func (h *headlessRunner) onFlushed(e event.Event) {
	flushed, ok := e.(event.SessionFlushedEvent)
	if !ok {
		return
	}
	if flushed.Err != nil {
		h.printf("save failed: %v\n", flushed.Err)
		return
	}
	h.printf("saved %d records to %s (%s)\n", flushed.Records, flushed.Path, flushed.Duration.Round(time.Millisecond))
}

func (h *headlessRunner) onDeviceFailed(e event.Event) {
	failed, ok := e.(event.DeviceFailedEvent)
	if !ok {
		return
	}
	h.printf("device %s failed: %v\n", failed.Device, failed.Err)
}

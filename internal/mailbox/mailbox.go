package mailbox

import (
	"sync"
	"sync/atomic"
)

// Slot is a single-value mailbox. The zero value is not usable; call New.
type Slot[T any] struct {
	mu      sync.Mutex
	val     T
	full    bool
	puts    uint64
	dropped uint64

	ready chan struct{}
}

// New returns an empty Slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{ready: make(chan struct{}, 1)}
}

// Put stores v, replacing any value not yet taken. It never blocks.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	if s.full {
		s.dropped++
	}
	s.val = v
	s.full = true
	s.puts++
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Take removes and returns the current value, if any.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.full {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.full = false
	return v, true
}

// Ready receives after a Put. A receive does not guarantee a value is still
// present: the consumer should Take and check ok.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// Stats reports how many values were put and how many were overwritten
// before the consumer took them.
func (s *Slot[T]) Stats() (puts, dropped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts, s.dropped
}

// Watch delivers values to handler on a separate goroutine until the
// returned cancel function is called. Values overwritten before the watcher
// gets to them are never delivered. cancel waits for an in-flight handler
// call to finish and is safe to call more than once.
func (s *Slot[T]) Watch(handler func(T)) (cancel func()) {
	var stopped atomic.Bool
	var once sync.Once
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Go(func() {
		for {
			select {
			case <-done:
				return
			case <-s.Ready():
			}
			if stopped.Load() {
				return
			}
			if v, ok := s.Take(); ok {
				handler(v)
			}
		}
	})

	return func() {
		once.Do(func() {
			stopped.Store(true)
			close(done)
		})
		wg.Wait()
	}
}

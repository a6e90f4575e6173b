package event

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe(TypeSessionStarted, func(e Event) {
		received = e
	})

	bus.Publish(NewSessionStartedEvent("s1", "Pad", "/tmp/x.csv", "csv", []string{"timestamp"}, 20*time.Millisecond))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	started, ok := received.(SessionStartedEvent)
	if !ok {
		t.Fatalf("received %T, want SessionStartedEvent", received)
	}
	if started.SessionID != "s1" || started.Path != "/tmp/x.csv" {
		t.Errorf("received %+v", started)
	}
}

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "all") })
	bus.Subscribe("test.event", func(e Event) { order = append(order, "first") })
	bus.Subscribe("test.event", func(e Event) { order = append(order, "second") })

	bus.Publish(newBaseEvent("test.event"))

	want := "first,second,all"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("handler order = %s, want %s", got, want)
	}
}

func TestBus_PublishNoMatchingHandlers(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("other.event", func(e Event) {
		t.Error("Handler should not be called for non-matching event type")
	})
	bus.Publish(newBaseEvent("test.event"))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe("test.event", func(e Event) { calls++ })
	keep := bus.Subscribe("test.event", func(e Event) { calls += 10 })

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe() = false, want true")
	}
	if bus.Unsubscribe(id) {
		t.Error("second Unsubscribe() = true, want false")
	}

	bus.Publish(newBaseEvent("test.event"))
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
	if keep == id {
		t.Error("subscription IDs should be unique")
	}
}

func TestBus_PanicRecovery(t *testing.T) {
	bus := NewBus()
	var buf bytes.Buffer
	bus.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	reached := false
	bus.Subscribe("test.event", func(e Event) { panic("boom") })
	bus.Subscribe("test.event", func(e Event) { reached = true })

	bus.Publish(newBaseEvent("test.event"))

	if !reached {
		t.Error("a panicking handler should not stop delivery to later handlers")
	}
	if !strings.Contains(buf.String(), "event handler panicked") {
		t.Errorf("panic was not logged: %s", buf.String())
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("a", func(Event) {})
	bus.SubscribeAll(func(Event) {})
	bus.Clear()
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() after Clear() = %d, want 0", bus.SubscriptionCount())
	}
}

func TestBus_Concurrent(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe(TypeSessionFlushed, func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Go(func() {
			bus.Publish(NewSessionFlushedEvent("s", "p", 1, time.Millisecond, nil))
		})
		wg.Go(func() {
			id := bus.Subscribe("noise", func(Event) {})
			bus.Unsubscribe(id)
		})
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
}

func TestEventTypes(t *testing.T) {
	cause := errors.New("gone")
	tests := []struct {
		event Event
		want  string
	}{
		{NewSessionStartedEvent("s", "d", "p", "csv", nil, time.Second), TypeSessionStarted},
		{NewSessionStoppingEvent("s", "requested"), TypeSessionStopping},
		{NewSessionFlushedEvent("s", "p", 0, 0, nil), TypeSessionFlushed},
		{NewSessionStoppedEvent("s", 0, 0, cause), TypeSessionStopped},
		{NewDeviceFailedEvent("s", "d", cause), TypeDeviceFailed},
		{NewConfigChangedEvent("/x"), TypeConfigChanged},
	}
	for _, tt := range tests {
		if got := tt.event.EventType(); got != tt.want {
			t.Errorf("EventType() = %q, want %q", got, tt.want)
		}
		if tt.event.Timestamp().IsZero() {
			t.Errorf("%s: Timestamp() is zero", tt.want)
		}
	}
}

package mailbox

import (
	"sync"
	"testing"
	"time"
)

func TestSlot_PutTake(t *testing.T) {
	s := New[int]()

	if _, ok := s.Take(); ok {
		t.Fatal("Take() on empty slot ok = true")
	}

	s.Put(1)
	s.Put(2)
	s.Put(3)

	v, ok := s.Take()
	if !ok || v != 3 {
		t.Errorf("Take() = %d, %v; want 3, true", v, ok)
	}
	if _, ok := s.Take(); ok {
		t.Error("second Take() ok = true, want false")
	}

	puts, dropped := s.Stats()
	if puts != 3 || dropped != 2 {
		t.Errorf("Stats() = %d, %d; want 3, 2", puts, dropped)
	}
}

func TestSlot_PutNeverBlocks(t *testing.T) {
	s := New[int]()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			s.Put(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Put() blocked without a consumer")
	}

	if v, _ := s.Take(); v != 9999 {
		t.Errorf("Take() = %d, want 9999", v)
	}
}

func TestSlot_Ready(t *testing.T) {
	s := New[int]()
	s.Put(7)

	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready() did not fire after Put()")
	}
	if v, ok := s.Take(); !ok || v != 7 {
		t.Errorf("Take() = %d, %v; want 7, true", v, ok)
	}
}

func TestSlot_Watch(t *testing.T) {
	s := New[int]()

	var mu sync.Mutex
	var got []int
	delivered := make(chan struct{}, 10)

	cancel := s.Watch(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		delivered <- struct{}{}
	})

	s.Put(42)
	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() handler was not called")
	}

	cancel()
	cancel()

	s.Put(43)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("delivered = %v, want [42]", got)
	}
}

// Package mailbox provides a single-slot, latest-wins hand-off between one
// producer and one consumer.
//
// A [Slot] holds at most one value. Put never blocks and replaces whatever
// the consumer has not yet taken, so a fast producer cannot build a backlog
// behind a slow consumer. The consumer either polls with [Slot.Take] or
// waits on [Slot.Ready], or hands a callback to [Slot.Watch].
//
// # Usage
//
//	slot := mailbox.New[string]()
//	cancel := slot.Watch(func(s string) { fmt.Println(s) })
//	defer cancel()
//
//	slot.Put("recording started")
package mailbox

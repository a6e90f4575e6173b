// Package event provides a pub-sub event bus that lets the capture session,
// the live view, and the CLI observe each other without direct dependencies.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Session lifecycle:
//   - [SessionStartedEvent]: the producer loop is running
//   - [SessionStoppingEvent]: the loop was asked to exit or hit a read failure
//   - [SessionFlushedEvent]: the terminal write finished
//   - [SessionStoppedEvent]: the session reached its terminal state
//
// Device and configuration:
//   - [DeviceFailedEvent]: a read failed mid-session
//   - [ConfigChangedEvent]: the config file changed on disk
//
// # Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeSessionFlushed, func(e event.Event) {
//	    flushed := e.(event.SessionFlushedEvent)
//	    fmt.Println("wrote", flushed.Records, "records to", flushed.Path)
//	})
//
// Handlers run synchronously on the publishing goroutine. Session events are
// published from the capture loop, so handlers should hand work off rather
// than block. Live input does not travel over the bus; it goes through the
// throttled channel.
package event

// Package capture runs capture sessions: it samples a device.Reader at a
// fixed interval, buffers the records, and writes them once when the
// session ends.
//
// A Session moves through Idle, Running, Stopping and Stopped. Start opens
// the device and launches a single producer goroutine; Stop (or a read
// failure) ends the loop, after which the buffered records are handed to
// the serializer exactly once. The live view never sees the record buffer:
// it receives throttled status and input events through a throttle.Channel.
//
// The loop sleeps only for the part of the interval not already spent
// reading, so the period between records stays close to the configured
// interval and never drops below it. When an iteration overruns it does
// not sleep and does not try to catch up.
package capture

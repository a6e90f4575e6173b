// Package logging provides structured JSON logging for padlog.
//
// Logs go to <logging.dir>/padlog.log through a [RotatingWriter] that keeps
// a bounded number of size-capped backups, or to stderr when no directory
// is configured.
//
// # Context
//
// Child loggers carry attributes onto every entry they write:
//
//	logger, _ := logging.NewLogger(dir, "INFO", logging.DefaultRotationConfig())
//	sessLog := logger.WithSession(id).WithDevice(reader.Name())
//	sessLog.Info("recording started", "path", path, "interval", interval)
//
// # Levels
//
// The capture loop logs per-iteration timing at DEBUG only. Session
// lifecycle and flush results are INFO; device and serialization failures
// are ERROR.
package logging

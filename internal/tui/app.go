package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the bubbletea program running the live view.
type App struct {
	program *tea.Program
}

// NewApp creates the live view for rec.
func NewApp(rec Recorder, opts Options) *App {
	return &App{program: tea.NewProgram(New(rec, opts), tea.WithAltScreen())}
}

// Run shows the live view until the user quits. Any running session is
// stopped and flushed first. The returned error is the terminal's, or else
// the result of the last session that ended.
func (a *App) Run() error {
	// SIGTERM and SIGHUP take the same path as pressing q so the last
	// session is flushed.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(quitMsg{})
		}
	}()

	final, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}

// Notify shows a one-line message, e.g. after a config reload. It is safe
// to call from any goroutine while Run is active.
func (a *App) Notify(msg string) {
	a.program.Send(noteMsg(msg))
}

// Package tui is the live view: a bubbletea program that drives a capture
// Recorder and renders the throttled status and input streams.
//
// The view never touches the producer loop directly. On every refresh tick
// it takes whatever the latest-wins mailboxes hold, so a slow terminal only
// skips frames and never slows sampling down.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/padlog/internal/capture"
	"github.com/Iron-Ham/padlog/internal/inputview"
	"github.com/Iron-Ham/padlog/internal/throttle"
	"github.com/Iron-Ham/padlog/internal/tui/styles"
	"github.com/Iron-Ham/padlog/internal/util"
)

// DefaultRefreshInterval is how often the view drains the mailboxes.
const DefaultRefreshInterval = 16 * time.Millisecond

const axisBarWidth = 21

// Recorder is the slice of capture.Recorder the view needs.
type Recorder interface {
	Start(filename string) (*capture.Session, error)
	Stop() error
	Current() (*capture.Session, *throttle.Channel)
}

// Options configure the live view.
type Options struct {
	// Filename is the initial output name. Empty uses the template.
	Filename string
	// AutoStart begins recording as soon as the view opens.
	AutoStart bool
	// RefreshInterval defaults to DefaultRefreshInterval.
	RefreshInterval time.Duration
}

type tickMsg time.Time

type startedMsg struct {
	session *capture.Session
	err     error
}

type stoppedMsg struct{ err error }

type quitMsg struct{}

type noteMsg string

// Model is the bubbletea model of the live view.
type Model struct {
	rec     Recorder
	refresh time.Duration
	auto    bool

	input    textinput.Model
	editing  bool
	prevName string

	status     string
	update     throttle.Update
	haveUpdate bool

	// reported is the last session whose end was surfaced.
	reported *capture.Session
	err      error
	note     string

	width    int
	stopping bool
	quitting bool
}

// New returns the live view for rec.
func New(rec Recorder, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "auto"
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Width = 32
	ti.SetValue(opts.Filename)

	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return Model{
		rec:     rec,
		refresh: refresh,
		auto:    opts.AutoStart,
		input:   ti,
		status:  "idle",
	}
}

// Init starts the refresh ticker, and the first session when AutoStart is set.
func (m Model) Init() tea.Cmd {
	if m.auto {
		return tea.Batch(m.tick(), m.startCmd())
	}
	return m.tick()
}

// Filename returns the name the next session records to.
func (m Model) Filename() string {
	return strings.TrimSpace(m.input.Value())
}

// Err returns the result of the last session that ended, if it failed.
func (m Model) Err() error {
	return m.err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) startCmd() tea.Cmd {
	rec, name := m.rec, m.Filename()
	return func() tea.Msg {
		s, err := rec.Start(name)
		return startedMsg{session: s, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		return stoppedMsg{err: rec.Stop()}
	}
}

func (m Model) running() bool {
	s, _ := m.rec.Current()
	return s != nil && s.State() == capture.StateRunning
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.drain()
		return m, m.tick()

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.note = ""
			return m, nil
		}
		m.err = nil
		m.note = "recording to " + msg.session.Path()
		m.drain()
		return m, nil

	case stoppedMsg:
		m.stopping = false
		m.drain()
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case noteMsg:
		m.note = string(msg)
		m.drain()
		return m, nil

	case quitMsg:
		return m.quit()

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "s", " ":
		if m.stopping || m.quitting {
			return m, nil
		}
		if m.running() {
			m.stopping = true
			m.note = "stopping..."
			return m, m.stopCmd()
		}
		return m, m.startCmd()

	case "n":
		if m.running() {
			m.note = "stop recording to change the filename"
			return m, nil
		}
		m.editing = true
		m.prevName = m.input.Value()
		m.note = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.quitting = true
	if m.running() || m.stopping {
		m.stopping = true
		m.note = "stopping..."
		return m, m.stopCmd()
	}
	return m, tea.Quit
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		if name := m.Filename(); name != "" {
			m.note = "next recording: " + name
		} else {
			m.note = "next recording uses the filename template"
		}
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		m.input.SetValue(m.prevName)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// drain takes the latest status and update from the current session's
// channel and surfaces a session that ended since the last call.
func (m *Model) drain() {
	s, ch := m.rec.Current()
	if ch != nil {
		if st, ok := ch.Status().Take(); ok {
			m.status = st
		}
		if u, ok := ch.Updates().Take(); ok {
			m.update = u
			m.haveUpdate = true
		}
	}
	if s != nil && s != m.reported && s.State() == capture.StateStopped {
		m.reported = s
		m.err = s.Err()
		if m.err == nil {
			m.note = fmt.Sprintf("saved %d records to %s", s.RecordCount(), s.Path())
		} else {
			m.note = ""
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	s, ch := m.rec.Current()
	running := s != nil && s.State() == capture.StateRunning

	var b strings.Builder

	badge := styles.Idle.Render("IDLE")
	if running {
		badge = styles.Recording.Render("● REC")
	}
	b.WriteString(styles.Title.Render("padlog") + "  " + badge + "\n\n")

	m.line(&b, "Status", m.status)
	if m.editing {
		m.line(&b, "File", m.input.View())
	} else {
		name := m.Filename()
		if name == "" {
			name = styles.Muted.Render("(template)")
		}
		m.line(&b, "File", name)
	}

	if s != nil && s.Schema() != nil {
		m.line(&b, "Layout", s.Schema().String())
		stats := fmt.Sprintf("%d samples", s.RecordCount())
		if rate := s.Rate(); rate > 0 {
			stats += fmt.Sprintf("  %.1f Hz", rate)
		}
		if running {
			stats += "  " + util.Elapsed(time.Since(s.StartedAt()))
		}
		m.line(&b, "Samples", stats)
	}
	if ch != nil {
		st := ch.Stats()
		m.line(&b, "Frames", fmt.Sprintf("%d of %d shown, %d skipped", st.UpdateOut-st.UpdateSkipped, st.UpdateIn, st.UpdateSkipped))
	}

	if m.haveUpdate {
		b.WriteString("\n" + styles.Panel.Render(m.renderInputs(s)) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + styles.Error.Render(m.fit("error: "+m.err.Error())) + "\n")
	}
	if m.note != "" {
		b.WriteString("\n" + styles.Muted.Render(m.fit(m.note)) + "\n")
	}

	b.WriteString(m.renderHelp(running))
	return b.String()
}

// fit clamps s to the terminal width once it is known.
func (m Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return util.TruncateANSI(s, m.width)
}

func (m Model) line(b *strings.Builder, label, value string) {
	b.WriteString(m.fit(styles.Label.Render(label)+value))
	b.WriteString("\n")
}

func (m Model) renderInputs(s *capture.Session) string {
	hasDpad := false
	if s != nil && s.Schema() != nil {
		hasDpad = s.Schema().Capabilities().HasHat
	}
	view := inputview.Describe(m.update.Axes, m.update.Buttons, hasDpad)

	var lines []string
	for i, v := range view.Axes {
		lines = append(lines, fmt.Sprintf("%s %s %6.3f",
			styles.Label.Render(fmt.Sprintf("axis%d", i)),
			styles.AxisBar(v, axisBarWidth),
			v))
	}

	active := view.Active()
	if len(active) == 0 {
		lines = append(lines, styles.Muted.Render("no input"))
	} else {
		lines = append(lines, styles.Active.Render(strings.Join(active, "  ")))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp(running bool) string {
	if m.editing {
		return styles.HelpBar.Render(styles.HelpItem("enter", "save") + "  " + styles.HelpItem("esc", "cancel"))
	}
	toggle := "start"
	if running {
		toggle = "stop"
	}
	return styles.HelpBar.Render(strings.Join([]string{
		styles.HelpItem("s", toggle),
		styles.HelpItem("n", "filename"),
		styles.HelpItem("q", "quit"),
	}, "  "))
}

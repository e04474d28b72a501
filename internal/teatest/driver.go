// Package teatest drives bubbletea models synchronously in tests.
//
// The Student Tracker shell talks to its collaborators only through Cmds:
// the session gate check, the dashboard load and the log submission all
// come back as messages. Driver runs those Cmds inline against the
// in-memory fakes and feeds their messages back through Update, so a test
// can press a key and immediately inspect the routed view.
//
// Spinners and huh's text cursors schedule their next frame with timer
// Cmds. Those never return within cmdTimeout and are dropped, which keeps
// the shell's loading states visible to assertions without animating them.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 100

// cmdTimeout separates Cmds answered by fakes from frame timers.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a tea.Model and runs the Cmds it returns.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been delivered. The runtime
	// would stop the program there, so later sends are ignored.
	Quitting bool

	skip func(tea.Msg) bool
}

// Option configures a Driver.
type Option func(*Driver)

// New wraps model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, skip: isFrameMsg}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg first, as the runtime does on start.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithSkip replaces the filter for messages that are dropped instead of
// delivered.
func WithSkip(skip func(tea.Msg) bool) Option {
	return func(d *Driver) { d.skip = skip }
}

// DrainInit runs Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init(), 0)
}

// Send delivers msg and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, 0)
}

// Exec runs a Cmd obtained outside Update, such as a view's submit.
func (d *Driver) Exec(cmd tea.Cmd) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.run(cmd, 0)
}

// ── keys ─────────────────────────────────────────────────────────────────────

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// PressEsc leaves the log form.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

// PressCtrlC quits from any view.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// PressCtrl sends a control key such as tea.KeyCtrlR.
func (d *Driver) PressCtrl(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// ── output ───────────────────────────────────────────────────────────────────

func (d *Driver) View() string {
	return d.Model.View()
}

// ViewContains reports whether the current frame contains s.
func (d *Driver) ViewContains(s string) bool {
	return strings.Contains(d.View(), s)
}

// ── cmd loop ─────────────────────────────────────────────────────────────────

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.T.Logf("teatest: stopped after %d chained commands", maxDepth)
		return
	}

	msg, ok := await(cmd)
	if !ok || msg == nil || d.skip(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
	default:
		var next tea.Cmd
		d.Model, next = d.Model.Update(msg)
		d.run(next, depth+1)
	}
}

// await returns cmd's message, or false when it is still waiting on a
// timer after cmdTimeout.
func await(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// isFrameMsg matches cursor blink messages. Their types are unexported in
// bubbles, so they are recognized by name.
func isFrameMsg(msg tea.Msg) bool {
	name := strings.ToLower(fmt.Sprintf("%T", msg))
	return strings.Contains(name, "blink")
}

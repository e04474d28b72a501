package cli

import (
	"testing"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/teatest"
)

// TestDriver wraps teatest.Driver with shell-specific inspection methods.
// It provides access to appModel internals (active view, shared state)
// that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver starting at route. It sets the
// terminal size and drains Init(), which runs the session gate and the
// first view's load against the in-memory fakes.
func NewTestDriver(t *testing.T, a *App, route app.Route) *TestDriver {
	t.Helper()

	m := newAppModel(a, route)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the routed view, or -1 while the gate
// is still checking.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().view
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the routed view.
func (d *TestDriver) ActiveView() View {
	return d.appModel().view
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Flash returns the transient notice above the view.
func (d *TestDriver) Flash() string {
	return d.appModel().flash
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

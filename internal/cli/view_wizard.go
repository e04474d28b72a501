package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// embeddedForm wraps a huh.Form inside a view. The view submits when the
// form completes and calls reset to show a fresh form bound to the same
// values, so a failed submission can be corrected and retried.
type embeddedForm struct {
	form  *huh.Form
	build func() *huh.Form
}

func newEmbeddedForm(build func() *huh.Form) embeddedForm {
	return embeddedForm{form: build(), build: build}
}

func (f *embeddedForm) Init() tea.Cmd {
	return f.form.Init()
}

// update forwards msg to the form and reports whether this message
// completed it.
func (f *embeddedForm) update(msg tea.Msg) (tea.Cmd, bool) {
	if f.form.State != huh.StateNormal {
		return nil, false
	}
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	return cmd, f.form.State == huh.StateCompleted
}

// reset replaces the form with a new one built from the current values.
func (f *embeddedForm) reset() tea.Cmd {
	f.form = f.build()
	return f.form.Init()
}

func (f *embeddedForm) View() string {
	return f.form.View()
}

package teatest

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type bumpMsg struct{}

// counterModel counts key presses and bumps, and quits on "q".
type counterModel struct {
	keys   int
	bumps  int
	width  int
	typed  string
	inited bool
}

func (m counterModel) Init() tea.Cmd {
	return func() tea.Msg { return bumpMsg{} }
}

func (m counterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case bumpMsg:
		m.bumps++
		m.inited = true
	case tea.KeyMsg:
		m.keys++
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "b":
			return m, tea.Batch(
				func() tea.Msg { return bumpMsg{} },
				func() tea.Msg { return bumpMsg{} },
			)
		}
		if msg.Type == tea.KeyRunes {
			m.typed += string(msg.Runes)
		}
	}
	return m, nil
}

func (m counterModel) View() string {
	return fmt.Sprintf("keys=%d bumps=%d typed=%s", m.keys, m.bumps, m.typed)
}

func TestDriver_InitAndSize(t *testing.T) {
	d := New(t, counterModel{}, WithSize(80, 24))
	d.DrainInit()

	m := d.Model.(counterModel)
	assert.Equal(t, 80, m.width)
	assert.True(t, m.inited)
	assert.Equal(t, 1, m.bumps)
}

func TestDriver_TypeAndBatch(t *testing.T) {
	d := New(t, counterModel{})
	d.Type("hi")
	d.PressKey('b')

	assert.True(t, d.ViewContains("typed=hi"))
	assert.True(t, d.ViewContains("bumps=2"))
	assert.True(t, d.ViewContains("keys=3"))
}

func TestDriver_QuitStopsDelivery(t *testing.T) {
	d := New(t, counterModel{})
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d.PressKey('x')
	assert.True(t, d.ViewContains("keys=1"))
}

func TestDriver_SkipDropsMessages(t *testing.T) {
	d := New(t, counterModel{}, WithSkip(func(msg tea.Msg) bool {
		_, ok := msg.(bumpMsg)
		return ok
	}))
	d.DrainInit()
	d.PressKey('b')

	assert.True(t, d.ViewContains("bumps=0"))
	assert.True(t, d.ViewContains("keys=1"))
}

func TestDriver_ExecRunsCommand(t *testing.T) {
	d := New(t, counterModel{})
	d.Exec(func() tea.Msg { return bumpMsg{} })
	assert.True(t, d.ViewContains("bumps=1"))
}

package ui

import (
	"fmt"
	"time"

	"snake/engine"
	"snake/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minInterval = 10 * time.Millisecond
	maxInterval = 2 * time.Second
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("87"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	overStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type keyMap struct {
	Pause   key.Binding
	Step    key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Step}, {k.Faster, k.Slower}, {k.Restart, k.Quit}}
}

var keys = keyMap{
	Pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "pause")),
	Step:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "step")),
	Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	Slower:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg carries the generation of the tick chain that produced it, so a
// restart or resume never runs two chains at once.
type tickMsg struct {
	gen int
}

// Model steps an engine one tick per timer tick and draws each frame.
type Model struct {
	engine   *engine.Local
	title    string
	keys     keyMap
	help     help.Model
	interval time.Duration
	gen      int
	paused   bool
	done     bool
}

func New(e *engine.Local, title string, interval time.Duration) Model {
	return Model{
		engine:   e,
		title:    title,
		keys:     keys,
		help:     help.New(),
		interval: min(max(interval, minInterval), maxInterval),
	}
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused && !m.done {
				m.gen++
				return m, m.tick()
			}
		case key.Matches(msg, m.keys.Step):
			if m.paused && !m.done {
				m.done = !m.engine.Step()
			}
		case key.Matches(msg, m.keys.Faster):
			m.interval = max(m.interval/2, minInterval)
		case key.Matches(msg, m.keys.Slower):
			m.interval = min(m.interval*2, maxInterval)
		case key.Matches(msg, m.keys.Restart):
			m.engine.Reset()
			m.done = false
			m.gen++
			if !m.paused {
				return m, m.tick()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.paused || m.done {
			return m, nil
		}
		m.done = !m.engine.Step()
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	status := fmt.Sprintf("tick every %s", m.interval)
	switch {
	case m.done:
		gameMetric, _, _ := m.engine.Result()
		status = overStyle.Render(fmt.Sprintf("%s after %d ticks", gameMetric.Termination, gameMetric.Ticks))
	case m.paused:
		status = pausedStyle.Render("paused")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		render.Frame(m.engine.State()),
		status,
		m.help.View(m.keys),
	)
}

func (m Model) Done() bool {
	return m.done
}

// Watch runs the watcher full screen until the user quits.
func Watch(e *engine.Local, title string, interval time.Duration) error {
	_, err := tea.NewProgram(New(e, title, interval), tea.WithAltScreen()).Run()
	return err
}

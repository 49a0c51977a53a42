package focus

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/habitflow/habitflow/internal/constants"
)

type Phase int

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "Break"
	}
	return "Focus"
}

// CompletedMsg is sent when a work phase runs out
type CompletedMsg struct {
	HabitID string
}

// CloseMsg asks the parent to leave focus mode. A phase still running is dropped.
type CloseMsg struct{}

type Durations struct {
	Work     time.Duration
	Break    time.Duration
	Interval time.Duration
}

func DefaultDurations() Durations {
	return Durations{
		Work:     constants.FocusWorkDuration,
		Break:    constants.FocusBreakDuration,
		Interval: time.Second,
	}
}

type KeyMap struct {
	Toggle key.Binding
	Close  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/pause"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
	}
}

var (
	workStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	breakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is a work/break countdown for one habit. The timer does not run
// until Start is called or the toggle key is pressed.
type Model struct {
	HabitID   string
	HabitName string

	durations Durations
	phase     Phase
	timer     timer.Model
	started   bool
	sessions  int
	keys      KeyMap
}

func New(habitID, habitName string, d Durations) Model {
	if d.Interval <= 0 || d.Interval > d.Work {
		d.Interval = min(time.Second, d.Work)
	}
	m := Model{
		HabitID:   habitID,
		HabitName: habitName,
		durations: d,
		keys:      DefaultKeyMap(),
	}
	m.reset(Work)
	return m
}

func (m *Model) reset(p Phase) {
	length := m.durations.Work
	if p == Break {
		length = m.durations.Break
	}
	m.phase = p
	m.timer = timer.NewWithInterval(length, m.durations.Interval)
	m.started = false
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Start begins the current phase
func (m *Model) Start() tea.Cmd {
	if m.started {
		return m.timer.Start()
	}
	m.started = true
	return m.timer.Init()
}

func (m Model) Phase() Phase { return m.phase }

func (m Model) Sessions() int { return m.sessions }

// TimerID identifies the countdown of the current phase
func (m Model) TimerID() int { return m.timer.ID() }

func (m Model) Running() bool {
	return m.started && m.timer.Running()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		if m.phase == Work {
			m.sessions++
			m.reset(Break)
			id := m.HabitID
			return m, func() tea.Msg { return CompletedMsg{HabitID: id} }
		}
		m.reset(Work)
		return m, nil

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Close):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if !m.started {
				return m, m.Start()
			}
			return m, m.timer.Toggle()
		}
	}
	return m, nil
}

func (m Model) View() string {
	name := m.HabitName
	if name == "" {
		name = "Habit"
	}
	total := m.durations.Work
	style := workStyle
	if m.phase == Break {
		total = m.durations.Break
		style = breakStyle
	}

	pct := 0
	if total > 0 {
		pct = int(100 * (total - max(m.timer.Timeout, 0)) / total)
	}
	const width = 30
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	state := "paused"
	if m.Running() {
		state = "running"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏱️  Focus mode: %s\n\n", name)
	fmt.Fprintf(&b, "%s  %s\n", style.Render(m.phase.String()), formatRemaining(m.timer.Timeout))
	fmt.Fprintf(&b, "%s\n", bar)
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %d sessions done", state, m.sessions)))
	return b.String()
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.Close}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

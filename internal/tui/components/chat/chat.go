package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SendMsg carries a message the user submitted
type SendMsg struct {
	Text string
}

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	coachStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type Model struct {
	viewport viewport.Model
	input    textinput.Model
	lines    []string
	waiting  bool
	submit   key.Binding
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "Tanya coach, atau minta jadwalkan sesuatu..."
	ti.CharLimit = 500
	ti.Prompt = "> "

	vp := viewport.New(width, max(height-2, 1))
	m := Model{
		viewport: vp,
		input:    ti,
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	}
	m.AddNote("Chat with your AI coach. It can schedule, add and complete habits for you.")
	return m
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m *Model) AddUser(text string) {
	m.append(userStyle.Render("You: ") + text)
}

func (m *Model) AddCoach(text string) {
	m.append(coachStyle.Render("Coach: ") + text)
}

func (m *Model) AddNote(text string) {
	m.append(noteStyle.Render(text))
}

// SetWaiting blocks new submissions while a reply is pending
func (m *Model) SetWaiting(waiting bool) {
	m.waiting = waiting
}

func (m Model) Waiting() bool {
	return m.waiting
}

func (m *Model) append(line string) {
	m.lines = append(m.lines, line)
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.lines, "\n\n")))
	m.viewport.GotoBottom()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.submit) {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.waiting {
			return m, nil
		}
		m.input.Reset()
		return m, func() tea.Msg { return SendMsg{Text: text} }
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	status := ""
	if m.waiting {
		status = noteStyle.Render("  coach is typing...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), status, m.input.View())
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-3, 1)
	m.input.Width = width - 4
	m.viewport.SetContent(lipgloss.NewStyle().Width(width).Render(strings.Join(m.lines, "\n\n")))
}

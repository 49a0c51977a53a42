package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitflow/habitflow/internal/models"
)

type AddHabitMsg struct{}

// SetStatusMsg asks for a status on today's log of a habit. Setting the
// status the habit already has clears it.
type SetStatusMsg struct {
	ID     string
	Status models.Status
}

type DeleteHabitMsg struct {
	ID string
}

type RestDayMsg struct{}

// FocusMsg opens a focus timer for one habit
type FocusMsg struct {
	ID string
}

type Item struct {
	Habit  models.Habit
	Status models.Status
	Streak int
}

func (i Item) Title() string {
	mark := "○"
	switch i.Status {
	case models.StatusDone:
		mark = "✓"
	case models.StatusSkipped:
		mark = "–"
	case models.StatusRest:
		mark = "z"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.Icon, i.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · %s · +%d XP", i.Habit.Category, i.Habit.Energy, i.Habit.XPReward)
	if i.Habit.Time != "" {
		desc += " · ⏰ " + i.Habit.Time
	}
	if i.Streak > 0 {
		desc += fmt.Sprintf(" · 🔥 %d", i.Streak)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Done   key.Binding
	Skip   key.Binding
	Delete key.Binding
	Rest   key.Binding
	Focus  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Done: key.NewBinding(
			key.WithKeys(" ", "enter", "m"),
			key.WithHelp("space", "toggle done"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Rest: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rest day"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus timer"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	bindings := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Skip, keys.Delete, keys.Rest, keys.Focus}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return Model{list: l, keys: keys}
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		selected, hasSelection := m.list.SelectedItem().(Item)
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Rest):
			return m, func() tea.Msg { return RestDayMsg{} }
		case key.Matches(msg, m.keys.Done) && hasSelection:
			return m, func() tea.Msg { return SetStatusMsg{ID: selected.Habit.ID, Status: models.StatusDone} }
		case key.Matches(msg, m.keys.Skip) && hasSelection:
			return m, func() tea.Msg { return SetStatusMsg{ID: selected.Habit.ID, Status: models.StatusSkipped} }
		case key.Matches(msg, m.keys.Focus) && hasSelection:
			return m, func() tea.Msg { return FocusMsg{ID: selected.Habit.ID} }
		case key.Matches(msg, m.keys.Delete) && hasSelection:
			return m, func() tea.Msg { return DeleteHabitMsg{ID: selected.Habit.ID} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted habit, if any
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

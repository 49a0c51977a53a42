package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/coach"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/tui/components/chat"
	"github.com/habitflow/habitflow/internal/tui/components/focus"
	"github.com/habitflow/habitflow/internal/tui/components/habits"
)

type HabitFormModel struct {
	Name     string
	Icon     string
	Category string
	Energy   string
	Time     string
}

// eventQueue collects engine milestones raised while handling one message.
// Both sides run on the program's event loop.
type eventQueue struct {
	items []engine.Event
}

func (q *eventQueue) push(ev engine.Event) {
	q.items = append(q.items, ev)
}

func (q *eventQueue) drain() []engine.Event {
	out := q.items
	q.items = nil
	return out
}

type Model struct {
	ctx           *cli.Context
	state         constants.SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	chatModel     chat.Model
	session       *coach.Session
	coachErr      error
	analysis      *coach.Analysis
	analyzing     bool
	form          *huh.Form
	habitForm     *HabitFormModel
	habitToDelete string
	focus         focus.Model
	focusTimes    focus.Durations
	events        *eventQueue
	notices       []string
	formError     string
	quitting      bool
	width         int
	height        int
}

// NewModel builds the TUI over an opened context
func NewModel(ctx *cli.Context) Model {
	events := &eventQueue{}
	ctx.SetEventSink(events.push)

	m := Model{
		ctx:         ctx,
		state:       constants.StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, 0, 0),
		chatModel:   chat.New(0, 0),
		events:      events,
		focusTimes:  focus.DefaultDurations(),
	}

	client, err := ctx.Coach()
	if err != nil {
		m.coachErr = err
		m.chatModel.AddNote(coach.UserMessage(err))
	} else {
		m.session = coach.NewSession(client, ctx.Engine.Profile().DisplayName, ctx.Config.Coach.HistoryLimit)
	}

	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == constants.StateFocus {
		return m.focus.ShortHelp()
	}
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateStats {
		keys = append(keys, m.keys.Analyze, m.keys.Daily, m.keys.Costume, m.keys.Freeze)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

type dayTickMsg time.Time

// tickDay refreshes the views once a minute so "today" follows the clock
func tickDay() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return dayTickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tickDay()
}

// refresh rebuilds the habit list from the engine
func (m *Model) refresh() {
	e := m.ctx.Engine
	today := e.Today()
	list := e.Habits()
	items := make([]habits.Item, len(list))
	for i, h := range list {
		items[i] = habits.Item{Habit: h, Status: e.LogStatus(h.ID, today), Streak: e.HabitStreak(h.ID)}
	}
	m.habitsModel.SetItems(items)
}

// commit persists the engine state and turns pending milestones into notices
func (m *Model) commit() {
	m.ctx.Commit()
	for _, ev := range m.events.drain() {
		m.notice(ev.Message())
	}
	m.refresh()
}

func (m *Model) notice(text string) {
	m.notices = append(m.notices, text)
	if len(m.notices) > 3 {
		m.notices = m.notices[len(m.notices)-3:]
	}
}

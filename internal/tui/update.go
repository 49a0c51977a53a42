package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitflow/habitflow/internal/coach"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/directive"
	"github.com/habitflow/habitflow/internal/dispatch"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/tui/components/chat"
	"github.com/habitflow/habitflow/internal/tui/components/focus"
	"github.com/habitflow/habitflow/internal/tui/components/habits"
	"github.com/habitflow/habitflow/internal/validation"
)

type chatReplyMsg struct {
	result directive.Result
	err    error
}

type analysisMsg struct {
	analysis coach.Analysis
	err      error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle Add Habit State
	if m.state == constants.StateAddHabit {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = constants.StateToday
			m.formError = ""
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			_, err := m.ctx.Engine.AddHabit(engine.HabitInput{
				Name:     m.habitForm.Name,
				Icon:     m.habitForm.Icon,
				Category: m.habitForm.Category,
				Energy:   models.ParseEnergy(m.habitForm.Energy),
				Time:     strings.TrimSpace(m.habitForm.Time),
			})
			if err != nil {
				// Stay in the form so the user can correct the value
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.commit()
			m.state = constants.StateToday
		case huh.StateAborted:
			m.state = constants.StateToday
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Delete State
	if m.state == constants.StateConfirmDelete {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				if err := m.ctx.Engine.DeleteHabit(m.habitToDelete); err != nil {
					m.notice(err.Error())
				} else {
					m.commit()
				}
				m.state = constants.StateToday
				m.habitToDelete = ""
			case key.Matches(msg, m.keys.Cancel), msg.String() == "q":
				m.state = constants.StateToday
				m.habitToDelete = ""
			}
		}
		return m, nil
	}

	// Handle Focus State
	if m.state == constants.StateFocus {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.Type == tea.KeyCtrlC {
				m.quitting = true
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.focus, cmd = m.focus.Update(msg)
			return m, cmd
		case timer.TickMsg, timer.StartStopMsg, timer.TimeoutMsg:
			var cmd tea.Cmd
			m.focus, cmd = m.focus.Update(msg)
			return m, cmd
		case focus.CloseMsg:
			m.state = constants.StateToday
			m.focus = focus.Model{}
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, notices and help take the remaining rows
		h := max(msg.Height-8, 3)
		m.habitsModel.SetSize(msg.Width-4, h)
		m.chatModel.SetSize(msg.Width-4, h)
		return m, nil

	case dayTickMsg:
		m.refresh()
		return m, tickDay()

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{Energy: string(models.EnergyMedium)}
		m.form = newHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.SetStatusMsg:
		e := m.ctx.Engine
		if _, err := e.SetLogStatus(msg.ID, e.Today(), msg.Status); err != nil {
			m.notice(err.Error())
			return m, nil
		}
		m.commit()
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habits.RestDayMsg:
		rest, err := m.ctx.Engine.ToggleRestDay(m.ctx.Engine.Today())
		if err != nil {
			m.notice(err.Error())
			return m, nil
		}
		if rest {
			m.notice("😴 Today is a rest day, streaks are safe")
		} else {
			m.notice("Rest day cleared")
		}
		m.commit()
		return m, nil

	case habits.FocusMsg:
		h, ok := m.ctx.Engine.Habit(msg.ID)
		if !ok {
			return m, nil
		}
		m.focus = focus.New(h.ID, h.Name, m.focusTimes)
		m.state = constants.StateFocus
		return m, nil

	case focus.CompletedMsg:
		// Only a work phase that ran out is paid
		m.ctx.Engine.CompleteFocusSession()
		name := "Focus session"
		if h, ok := m.ctx.Engine.Habit(msg.HabitID); ok {
			name = h.Icon + " " + h.Name
		}
		m.notice(fmt.Sprintf("⏱️ %s: focus session done, +%d XP", name, constants.XPFocusSession))
		m.commit()
		return m, nil

	case chat.SendMsg:
		if m.session == nil {
			m.chatModel.AddNote(coach.UserMessage(m.coachErr))
			return m, nil
		}
		m.chatModel.AddUser(msg.Text)
		m.chatModel.SetWaiting(true)
		// The engine is read here, on the event loop; only the request runs async.
		return m, sendChat(m.session, coach.AppContext(m.ctx.Engine), msg.Text)

	case chatReplyMsg:
		m.chatModel.SetWaiting(false)
		if msg.err != nil {
			logger.Warn("Coach chat failed", "error", msg.err)
			m.chatModel.AddNote(coach.UserMessage(msg.err))
			return m, nil
		}
		m.chatModel.AddCoach(msg.result.Display())
		report := dispatch.New(m.ctx.Engine).Apply(msg.result)
		for _, line := range report.Summary() {
			m.chatModel.AddNote(line)
		}
		if report.Changed() {
			m.commit()
		}
		return m, nil

	case analysisMsg:
		m.analyzing = false
		if msg.err != nil {
			logger.Warn("Coach analysis failed", "error", msg.err)
			m.notice(coach.UserMessage(msg.err))
			return m, nil
		}
		m.analysis = &msg.analysis
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, m.keys.Tab):
			m.switchTab(1)
			return m, m.focusChat()
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab(-1)
			return m, m.focusChat()
		}

		// The coach tab owns every other key for its input line
		if m.state == constants.StateCoach {
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == constants.StateStats {
			return m.updateStats(msg)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateCoach:
		m.chatModel, cmd = m.chatModel.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.ctx.Engine
	switch {
	case key.Matches(msg, m.keys.Analyze):
		return m.startAnalysis(coach.NewAnalysisRequest(e, ""))
	case key.Matches(msg, m.keys.Daily):
		return m.startAnalysis(coach.NewDailyEvalRequest(e))
	case key.Matches(msg, m.keys.Costume):
		next := e.ActiveCostume().Level%e.Level().Level + 1
		if err := e.SetActiveCostume(next); err != nil {
			m.notice(err.Error())
			return m, nil
		}
		m.commit()
	case key.Matches(msg, m.keys.Freeze):
		if !e.UseStreakFreeze() {
			m.notice(fmt.Sprintf("No streak freeze left, earn one every %d streak days", constants.FreezeMilestone))
			return m, nil
		}
		m.notice("🧊 Streak freeze used")
		m.commit()
	}
	return m, nil
}

func (m Model) startAnalysis(req coach.AnalysisRequest) (tea.Model, tea.Cmd) {
	if m.analyzing {
		return m, nil
	}
	client, err := m.ctx.Coach()
	if err != nil {
		m.notice(coach.UserMessage(err))
		return m, nil
	}
	if err := req.Validate(); err != nil {
		m.notice(err.Error())
		return m, nil
	}
	m.analyzing = true
	return m, analyze(client, req)
}

func (m *Model) switchTab(step int) {
	m.state = constants.SessionState((int(m.state) + step + constants.TabCount) % constants.TabCount)
}

func (m *Model) focusChat() tea.Cmd {
	if m.state == constants.StateCoach {
		return m.chatModel.Focus()
	}
	m.chatModel.Blur()
	return nil
}

func sendChat(session *coach.Session, appContext, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := session.Send(context.Background(), appContext, text)
		return chatReplyMsg{result: res, err: err}
	}
}

func analyze(client *coach.Client, req coach.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		a, err := client.Analyze(context.Background(), req)
		return analysisMsg{analysis: a, err: err}
	}
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					_, err := validation.ValidateHabitName(s)
					return err
				}),
			huh.NewInput().
				Title("Icon").
				Placeholder(constants.DefaultHabitIcon).
				Value(&f.Icon),
			huh.NewInput().
				Title("Category").
				Placeholder(constants.DefaultCategory).
				Value(&f.Category),
			huh.NewSelect[string]().
				Title("Energy").
				Options(huh.NewOptions("low", "medium", "high")...).
				Value(&f.Energy),
			huh.NewInput().
				Title("Time (HH:MM, optional)").
				Value(&f.Time).
				Validate(validation.ValidateTime),
		),
	).WithShowHelp(true)
}

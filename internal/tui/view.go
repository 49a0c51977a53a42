package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/engine"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateStats:
		content = m.viewStats()
	case constants.StateBadges:
		content = m.viewBadges()
	case constants.StateCoach:
		content = docStyle.Render(m.chatModel.View())
	case constants.StateAddHabit:
		content = m.form.View()
		if m.formError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.formError))
		}
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateFocus:
		content = docStyle.Render(m.focus.View())
	}

	var notices string
	if len(m.notices) > 0 {
		lines := make([]string, len(m.notices))
		for i, n := range m.notices {
			lines[i] = noticeStyle.Render(n)
		}
		notices = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		notices,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Today", "Stats", "Badges", "Coach"}
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	e := m.ctx.Engine
	today := e.Today()
	header := fmt.Sprintf("%s  %s %d%%  🔥 %d", today, cli.ProgressBar(e.TodayCompletionPct(), 20), e.TodayCompletionPct(), e.GlobalStreak())
	if e.IsRestDay(today) {
		header += "  " + warningStyle.Render("rest day")
	}

	parts := []string{headerStyle.Render(header), m.habitsModel.View()}
	if missed := e.MissedHabits(); len(missed) > 0 {
		names := make([]string, len(missed))
		for i, h := range missed {
			names[i] = h.Icon + " " + h.Name
		}
		parts = append(parts, warningStyle.Render(fmt.Sprintf("⚠️  Missed for %d days: %s", constants.MissedWindowDays, strings.Join(names, ", "))))
	}
	if agenda := e.ScheduleFor(today); len(agenda) > 0 {
		var b strings.Builder
		b.WriteString(headerStyle.Render("Agenda"))
		for _, item := range agenda {
			b.WriteString("\n  • " + item)
		}
		parts = append(parts, b.String())
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewStats() string {
	e := m.ctx.Engine
	p := e.Profile()
	info := engine.ProgressFor(p.XP)
	costume := e.ActiveCostume()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  Level %d, %s\n", costume.Emoji, p.DisplayName, info.Current.Level, info.Current.Title)
	fmt.Fprintf(&b, "XP %d  %s %d%%\n", p.XP, cli.ProgressBar(info.Pct, 20), info.Pct)
	fmt.Fprintf(&b, "Discipline %d  Streak %d (best %d)  Freezes %d\n\n",
		e.DisciplineScore(), e.GlobalStreak(), p.BestStreak, p.FreezeTokens)

	b.WriteString(headerStyle.Render("This week") + "\n")
	for _, d := range e.WeekStats(e.CurrentWeekDates()) {
		label := fmt.Sprintf("%3d%%", d.Pct)
		if d.Rest {
			label = " 😴 "
		}
		fmt.Fprintf(&b, "  %s %s %s\n", d.Date, cli.ProgressBar(d.Pct, 14), label)
	}

	switch {
	case m.analyzing:
		b.WriteString("\n" + mutedStyle.Render("Analyzing..."))
	case m.analysis != nil:
		a := m.analysis
		b.WriteString("\n" + headerStyle.Render("Coach analysis") + "\n")
		fmt.Fprintf(&b, "  💪 Strongest: %s\n  🌱 Weakest: %s\n  💡 %s\n  ➕ Try: %s\n  %s\n",
			a.Strongest, a.Weakest, a.Improvement, a.NewHabit, a.Encouragement)
	}
	return docStyle.Render(b.String())
}

func (m Model) viewBadges() string {
	e := m.ctx.Engine
	var b strings.Builder
	for _, badge := range engine.Badges {
		if e.HasBadge(badge.ID) {
			fmt.Fprintf(&b, "%s %s  %s\n", badge.Icon, badge.Name, mutedStyle.Render(badge.Description))
		} else {
			fmt.Fprintf(&b, "🔒 %s\n", mutedStyle.Render(badge.Name+"  "+badge.Description))
		}
	}
	return docStyle.Render(b.String())
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDelete
	if h, ok := m.ctx.Engine.Habit(m.habitToDelete); ok {
		name = h.Name
	}
	return docStyle.Render(
		dangerStyle.Render(fmt.Sprintf("Delete habit %q and its history?", name)) +
			"\n\n" + mutedStyle.Render("y to confirm, n to cancel"),
	)
}

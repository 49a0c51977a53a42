package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.Quiet()
	p := tea.NewProgram(tui.NewModel(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

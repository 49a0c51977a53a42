package system

import (
	"encoding/json"
	"fmt"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/coach"
	"github.com/habitflow/habitflow/internal/logger"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show storage and log file locations."`
	Dump    DebugDumpCmd    `cmd:"" help:"Dump the full state as JSON."`
	Context DebugContextCmd `cmd:"" help:"Show the context sent to the coach."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"user": ctx.Config.UserID,
		"log":  logger.Path(),
	})
}

type DebugDumpCmd struct{}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, ctx.Engine.Snapshot())
}

type DebugContextCmd struct{}

func (cmd *DebugContextCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]interface{}{
		"app_context": coach.AppContext(ctx.Engine),
		"analysis":    coach.NewAnalysisRequest(ctx.Engine, ""),
	})
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.Out, string(jsonBytes))
	return nil
}

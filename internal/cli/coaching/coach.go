package coaching

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/coach"
	"github.com/habitflow/habitflow/internal/dispatch"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/validation"
)

type CoachCmd struct {
	Analyze AnalyzeCmd `cmd:"" help:"Ask the AI coach to analyse your week."`
	Chat    ChatCmd    `cmd:"" help:"Chat with the AI coach. It can schedule, add and complete habits."`
	Daily   DailyCmd   `cmd:"" help:"Ask the AI coach to evaluate today."`
}

type AnalyzeCmd struct {
	Message []string `arg:"" optional:"" help:"Optional question for the coach."`
}

func (c *AnalyzeCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Coach()
	if err != nil {
		return userError(err)
	}
	return evaluate(ctx, client, coach.NewAnalysisRequest(ctx.Engine, strings.Join(c.Message, " ")))
}

type DailyCmd struct{}

// Run sends today's done and open habits for an evaluation
func (c *DailyCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Coach()
	if err != nil {
		return userError(err)
	}
	return evaluate(ctx, client, coach.NewDailyEvalRequest(ctx.Engine))
}

func evaluate(ctx *cli.Context, client *coach.Client, req coach.AnalysisRequest) error {
	fmt.Fprintln(ctx.Out, "🤖 Thinking...")
	analysis, err := client.Analyze(context.Background(), req)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(ctx.Out, "\n💬 %s\n\n", analysis.Encouragement)
	fmt.Fprintf(ctx.Out, "💪 Strongest:   %s\n", analysis.Strongest)
	fmt.Fprintf(ctx.Out, "🌱 Needs love:  %s\n", analysis.Weakest)
	fmt.Fprintf(ctx.Out, "🛠  Try this:    %s\n", analysis.Improvement)
	fmt.Fprintf(ctx.Out, "✨ New habit:   %s\n", analysis.NewHabit)
	return nil
}

type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Message to send. Omit for an interactive session."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Coach()
	if err != nil {
		return userError(err)
	}
	session := coach.NewSession(client, ctx.Engine.Profile().DisplayName, ctx.Config.Coach.HistoryLimit)

	if len(c.Message) > 0 {
		return turn(ctx, session, strings.Join(c.Message, " "))
	}
	return repl(ctx, session, os.Stdin)
}

func repl(ctx *cli.Context, session *coach.Session, in io.Reader) error {
	fmt.Fprintln(ctx.Out, "Chatting with your coach. Empty line or 'exit' to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(ctx.Out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(ctx.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "exit" || line == "quit" {
			return nil
		}
		// A failed turn is reported and the conversation goes on
		if err := turn(ctx, session, line); err != nil {
			fmt.Fprintf(ctx.Out, "⚠️  %v\n", err)
		}
	}
}

// turn sends one message, prints the reply and applies any directives in it
func turn(ctx *cli.Context, session *coach.Session, message string) error {
	res, err := session.Send(context.Background(), coach.AppContext(ctx.Engine), message)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(ctx.Out, "🤖 %s\n", res.Display())

	report := dispatch.New(ctx.Engine).Apply(res)
	for _, line := range report.Summary() {
		fmt.Fprintf(ctx.Out, "   %s\n", line)
	}
	if report.Changed() {
		ctx.Commit()
	}
	return nil
}

// userError keeps input errors as they are and replaces upstream failures
// with a sentence the user can act on. The cause goes to the log.
func userError(err error) error {
	if errors.Is(err, validation.ErrValidation) {
		return err
	}
	logger.Warn("Coach request failed", "error", err)
	return errors.New(coach.UserMessage(err))
}

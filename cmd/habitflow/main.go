package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/cli/coaching"
	"github.com/habitflow/habitflow/internal/cli/habits"
	"github.com/habitflow/habitflow/internal/cli/progress"
	"github.com/habitflow/habitflow/internal/cli/system"
	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/constants"
	apperrors "github.com/habitflow/habitflow/internal/errors"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path" default:"${config_path}"`
	Storage  string `help:"Storage location: SQLite path, .json file, PostgreSQL connection string or 'keyring'. Credentials must NOT be embedded in PostgreSQL connection strings."`
	User     string `help:"User whose state is loaded."`
	Timezone string `help:"IANA timezone that decides the calendar day."`
	Verbose  bool   `short:"v" help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitflow storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" default:"1" help:"Launch the interactive TUI."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Mark     habits.MarkCmd       `cmd:"" help:"Mark a habit done, skipped or rest for a day."`
	Today    habits.TodayCmd      `cmd:"" help:"Show today's habits and progress."`
	Log      habits.LogCmd        `cmd:"" help:"Show recent history as a grid."`
	Stats    progress.StatsCmd    `cmd:"" help:"Show weekly statistics."`
	Profile  progress.ProfileCmd  `cmd:"" help:"Show or rename your progress profile."`
	Badges   progress.BadgesCmd   `cmd:"" help:"List badges."`
	Costume  progress.CostumeCmd  `cmd:"" help:"List or wear an unlocked costume."`
	Freeze   progress.FreezeCmd   `cmd:"" help:"Spend a streak freeze."`
	Rest     progress.RestCmd     `cmd:"" help:"Toggle a rest day or set the weekly rest day."`
	Focus    progress.FocusCmd    `cmd:"" help:"Run a focus timer; a finished session earns XP."`
	Schedule progress.ScheduleCmd `cmd:"" help:"Show or add agenda items for a day."`
	Coach    coaching.CoachCmd    `cmd:"" help:"Talk to the AI coach."`
	Key      system.KeyCmd        `cmd:"" help:"Manage secrets in the OS keyring."`
	Backup   system.BackupCmd     `cmd:"" help:"Manage SQLite database backups."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Send due habit reminders (used by schedulers)."`
}

// commands that work on the store directly instead of a loaded engine
var storeOnly = map[string]bool{
	"init":   true,
	"doctor": true,
	"key":    true,
	"backup": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Gamified habit tracker with an AI coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	applyFlags(cfg)

	if err := logger.Init(logger.Config{
		Dir:     filepath.Dir(config.ExpandHome(CLI.Config)),
		Verbose: cfg.Debug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	store, err := cli.OpenStore(cfg.Storage)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx, err := cli.NewContext(cfg, store)
	if err != nil {
		store.Close()
		apperrors.Fatal(err)
	}

	if !needsStoreOnly(ctx.Command()) {
		if err := appCtx.Open(); err != nil {
			store.Close()
			if errors.Is(err, storage.ErrNotInitialized) {
				err = fmt.Errorf("no data at %s: %w", store.GetConfigPath(), err)
			}
			apperrors.Fatal(err)
		}
	}

	runErr := ctx.Run(appCtx)
	closeErr := appCtx.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		apperrors.Fatal(err)
	}
	logger.Close()
}

func applyFlags(cfg *config.Config) {
	if CLI.Storage != "" {
		cfg.Storage = CLI.Storage
	}
	if CLI.User != "" {
		cfg.UserID = CLI.User
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Verbose {
		cfg.Debug = true
	}
}

func needsStoreOnly(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	if fields[0] == "debug" && len(fields) > 1 && fields[1] == "db-path" {
		return true
	}
	return storeOnly[fields[0]]
}

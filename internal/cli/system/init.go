package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/habitflow/habitflow/internal/backup"
	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
	Name   string `help:"Display name used by the coach." default:""`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()

	if c.Force {
		if storage.IsPostgres(dbPath) || ctx.Config.Storage == "keyring" {
			return errors.New("--force is only supported for file based storage")
		}
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(config.ExpandHome(c.Source))
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if !storage.IsJSON(dbPath) {
				if saved, err := backup.NewManager(dbPath).Create(); err != nil {
					fmt.Fprintf(ctx.Out, "Warning: could not back up existing database: %v\n", err)
				} else {
					fmt.Fprintf(ctx.Out, "Backed up existing database to: %s\n", saved)
				}
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(ctx.Out, "Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized habitflow storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.Out, "Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(ctx.Out, "Migration completed successfully!")
		return nil
	}

	// A fresh store gets a profile row so the name sticks
	snap, err := ctx.Store.Load(ctx.Config.UserID)
	if err != nil {
		return err
	}
	if c.Name != "" {
		snap.Profile.DisplayName = c.Name
	} else if snap.Profile.DisplayName == "" {
		snap.Profile.DisplayName = ctx.Config.DisplayName
	}
	return ctx.Store.Save(ctx.Config.UserID, snap)
}

// copyFrom moves the configured user's whole state from another store
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := cli.OpenStore(source)
	if err != nil {
		return err
	}
	defer src.Close()

	snap, err := src.Load(ctx.Config.UserID)
	if err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	if c.Name != "" {
		snap.Profile.DisplayName = c.Name
	}
	if err := ctx.Store.Save(ctx.Config.UserID, snap); err != nil {
		return fmt.Errorf("failed to save to destination: %w", err)
	}

	fmt.Fprintf(ctx.Out, "    Copied %d habits\n", len(snap.Habits))
	fmt.Fprintf(ctx.Out, "    Copied %d log entries\n", len(snap.Logs))
	fmt.Fprintf(ctx.Out, "    Copied profile (%d XP, %d badges)\n", snap.Profile.XP, len(snap.Profile.EarnedBadges))
	return nil
}

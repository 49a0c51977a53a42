package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/keyring"
	"github.com/habitflow/habitflow/internal/storage/postgres"
)

type KeyCmd struct {
	Set    KeySetCmd    `cmd:"" help:"Store the coach API key (or a database connection string) in the OS keyring."`
	Delete KeyDeleteCmd `cmd:"" help:"Remove a stored secret from the OS keyring."`
	Status KeyStatusCmd `cmd:"" help:"Check the OS keyring and the stored secrets."`
}

type KeySetCmd struct {
	Value      string `arg:"" help:"API key, or connection string with --connection."`
	Connection bool   `help:"Store a PostgreSQL connection string instead of the API key."`
}

func (cmd *KeySetCmd) Run(ctx *cli.Context) error {
	if !cmd.Connection {
		if err := keyring.Set(keyring.CoachAPIKey, strings.TrimSpace(cmd.Value)); err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, "✓ Coach API key stored in OS keyring")
		return nil
	}

	if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Fprintln(ctx.Out, "⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Fprintln(ctx.Out, "   It will be stored as-is in the encrypted OS keyring.")
	}
	if err := keyring.Set(keyring.ConnectionString, cmd.Value); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, "✓ Connection string stored in OS keyring")
	fmt.Fprintln(ctx.Out, "  Use it with: habitflow --storage keyring")
	return nil
}

type KeyDeleteCmd struct {
	Connection bool `help:"Delete the connection string instead of the API key."`
}

func (cmd *KeyDeleteCmd) Run(ctx *cli.Context) error {
	name, label := keyring.CoachAPIKey, "Coach API key"
	if cmd.Connection {
		name, label = keyring.ConnectionString, "Connection string"
	}
	if err := keyring.Delete(name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", strings.ToLower(label))
		}
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ %s deleted from OS keyring\n", label)
	return nil
}

type KeyStatusCmd struct{}

func (cmd *KeyStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.Out, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Fprintln(ctx.Out, "✓ OS keyring is available")

	for _, s := range []struct{ name, label string }{
		{keyring.CoachAPIKey, "Coach API key"},
		{keyring.ConnectionString, "Connection string"},
	} {
		if value, err := keyring.Get(s.name); err == nil {
			fmt.Fprintf(ctx.Out, "✓ %s is stored (%s)\n", s.label, maskSecret(value))
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Fprintf(ctx.Out, "ℹ No %s stored\n", strings.ToLower(s.label))
		}
	}
	return nil
}

// maskSecret shows only the ends of a secret
func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

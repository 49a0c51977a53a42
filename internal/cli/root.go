package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/habitflow/habitflow/internal/coach"
	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/keyring"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/notifier"
	"github.com/habitflow/habitflow/internal/storage"
	"github.com/habitflow/habitflow/internal/storage/postgres"
	"github.com/habitflow/habitflow/internal/storage/sqlite"
	hsync "github.com/habitflow/habitflow/internal/sync"
	"github.com/habitflow/habitflow/internal/utils"
)

// Context is shared by every command. Engine and Saver are nil until Open
// has loaded the user's state.
type Context struct {
	Config   *config.Config
	Store    storage.Provider
	Engine   *engine.Engine
	Saver    *hsync.Saver
	Notifier *notifier.Notifier
	Out      io.Writer
	// Clock overrides the wall clock of the engine when set before Open
	Clock func() time.Time

	location *time.Location
	quiet    bool
	sink     func(engine.Event)
}

// NewContext builds the context for cfg without touching storage
func NewContext(cfg *config.Config, store storage.Provider) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	c := &Context{
		Config:   cfg,
		Store:    store,
		Out:      os.Stdout,
		location: loc,
	}
	if cfg.Notify {
		c.Notifier = notifier.New()
	}
	return c, nil
}

// Open loads the configured user and wires the engine to the saver. A load
// failure other than a missing store is logged and the session starts from
// an empty state.
func (c *Context) Open() error {
	snap, err := c.Store.Load(c.Config.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotInitialized) {
			return err
		}
		logger.Warn("Failed to load state, starting empty", "user", c.Config.UserID, "error", err)
		snap = storage.EmptySnapshot(c.Config.DisplayName)
	}
	if snap.Profile.DisplayName == "" && c.Config.DisplayName != "" {
		snap.Profile.DisplayName = c.Config.DisplayName
	}

	opts := []engine.Option{
		engine.WithLocation(c.location),
		engine.WithListener(engine.ListenerFunc(c.onEvent)),
	}
	if c.Clock != nil {
		opts = append(opts, engine.WithClock(c.Clock))
	}
	c.Engine = engine.New(snap, opts...)
	c.Saver = hsync.NewSaver(c.Store, c.Config.UserID, c.Config.SyncDebounce())
	return nil
}

// Quiet stops milestone messages from being printed. The TUI renders them itself.
func (c *Context) Quiet() {
	c.quiet = true
}

// SetEventSink receives every milestone after it has been logged
func (c *Context) SetEventSink(fn func(engine.Event)) {
	c.sink = fn
}

// Commit schedules a debounced save of the engine's current state
func (c *Context) Commit() {
	if c.Saver != nil && c.Engine != nil {
		c.Saver.Touch(c.Engine.Snapshot())
	}
}

// Close flushes pending writes and releases the store
func (c *Context) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if c.Saver != nil {
		if err := c.Saver.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Notifier != nil {
		c.Notifier.Wait()
	}
	if err := c.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Coach builds a coach client. The API key comes from the config (and so
// from HABITFLOW_COACH_API_KEY) first, then from the OS keyring.
func (c *Context) Coach() (*coach.Client, error) {
	apiKey := c.Config.Coach.APIKey
	if apiKey == "" {
		key, err := keyring.GetAPIKey()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Keyring lookup failed", "error", err)
		}
		apiKey = key
	}
	return coach.NewFromConfig(c.Config.Coach, apiKey)
}

// Location is the timezone calendar days are computed in
func (c *Context) Location() *time.Location {
	return c.location
}

func (c *Context) onEvent(ev engine.Event) {
	logger.Info("Milestone", "kind", ev.Kind, "message", ev.Message())
	if !c.quiet {
		fmt.Fprintln(c.Out, ev.Message())
	}
	if c.sink != nil {
		c.sink(ev)
	}
	if c.Notifier != nil {
		c.Notifier.OnEvent(ev)
	}
}

// OpenStore picks a storage provider from target: a PostgreSQL URL or DSN,
// "keyring" for a connection string kept in the OS keyring, a .json file, or
// a SQLite database path.
func OpenStore(target string) (storage.Provider, error) {
	if target == "keyring" {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("no connection string in keyring, use 'habitflow key set --connection': %w", err)
		}
		return postgres.New(connStr), nil
	}
	if storage.IsPostgres(target) {
		if storage.HasEmbeddedCredentials(target) {
			return nil, postgres.ErrEmbeddedCredentials
		}
		return postgres.New(target), nil
	}
	if storage.IsJSON(target) {
		return storage.NewJSONStore(config.ExpandHome(target)), nil
	}
	return sqlite.NewStore(config.ExpandHome(target)), nil
}

// ResolveDate turns "", "today", "yesterday" or a YYYY-MM-DD date into a date key
func (c *Context) ResolveDate(s string) (string, error) {
	today := c.Engine.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.AddDays(today, -1)
	}
	if _, err := utils.ParseDate(s); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// ResolveHabit finds a habit by id or name fragment
func (c *Context) ResolveHabit(query string) (string, error) {
	h, ok := c.Engine.FindHabit(query)
	if !ok {
		return "", fmt.Errorf("habit %q not found", query)
	}
	return h.ID, nil
}

var dayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name, a three letter abbreviation or a
// number (0=Sunday, 6=Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	part := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := dayMap[part]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ProgressBar renders pct (0..100) as a fixed width bar
func ProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitflow"
	DefaultKeyringUser = "coach-api-key"
	DefaultConfigDir   = "~/.config/habitflow"
	DefaultStoragePath = "~/.config/habitflow/habitflow.db"
	DefaultUserID      = "local"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitflow-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.habitflow.tray"

	// Sync constants
	DefaultSyncDebounce = 2 * time.Second
)

// Session States
const (
	StateToday SessionState = iota
	StateStats
	StateBadges
	StateCoach
	StateAddHabit
	StateConfirmDelete
	StateFocus
)

// TabCount is the number of top level views reachable with tab
const TabCount = 4

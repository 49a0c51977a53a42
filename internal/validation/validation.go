package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/habitflow/habitflow/internal/constants"
)

// ErrValidation is the sentinel matched by every *Error
var ErrValidation = errors.New("validation error")

// Error describes a rejected input. Operations returning it have not mutated any state.
type Error struct {
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

func newError(field, value, reason string) *Error {
	return &Error{Field: field, Value: value, Reason: reason}
}

// ValidateDate checks a YYYY-MM-DD calendar date and returns the parsed day
func ValidateDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, newError("date", date, "expected YYYY-MM-DD")
	}
	return t, nil
}

// ValidateTime checks an optional HH:MM time of day. The empty string is accepted.
func ValidateTime(timeStr string) error {
	if timeStr == "" {
		return nil
	}
	if len(timeStr) != len(constants.TimeFormat) {
		return newError("time", timeStr, "expected HH:MM")
	}
	if _, err := time.Parse(constants.TimeFormat, timeStr); err != nil {
		return newError("time", timeStr, "expected HH:MM")
	}
	return nil
}

// ValidateHabitName trims the name and enforces the length bounds
func ValidateHabitName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", newError("name", name, "must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxHabitNameLength {
		return "", newError("name", "", fmt.Sprintf("must be at most %d characters", constants.MaxHabitNameLength))
	}
	return trimmed, nil
}

// ValidateID rejects empty or whitespace-padded identifiers
func ValidateID(id string) error {
	if id == "" || strings.TrimSpace(id) != id {
		return newError("habit id", id, "malformed identifier")
	}
	return nil
}

// NotFound reports an identifier that does not resolve to a habit
func NotFound(id string) error {
	return newError("habit id", id, "habit does not exist")
}

// Invalid builds a validation error for an arbitrary field
func Invalid(field, value, reason string) error {
	return newError(field, value, reason)
}

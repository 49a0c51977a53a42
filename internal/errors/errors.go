package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/storage"
	"github.com/habitflow/habitflow/internal/storage/postgres"
	"github.com/habitflow/habitflow/internal/validation"
)

// Process exit codes
const (
	ExitFailure        = 1
	ExitInvalidInput   = 2
	ExitNotInitialized = 3
)

// Replaced in tests
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// ExitCode maps err onto the exit status of the process
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, storage.ErrNotInitialized):
		return ExitNotInitialized
	case stderrors.Is(err, validation.ErrValidation):
		return ExitInvalidInput
	}
	return ExitFailure
}

// Hint suggests the command that fixes a known failure, or returns ""
func Hint(err error) string {
	switch {
	case stderrors.Is(err, storage.ErrNotInitialized):
		return fmt.Sprintf("run '%s init' to create the storage", constants.AppName)
	case stderrors.Is(err, postgres.ErrEmbeddedCredentials):
		return fmt.Sprintf("save the connection string with '%s key set --connection' and use --storage keyring", constants.AppName)
	}
	return ""
}

// Format renders err for the terminal with an "Error: " prefix and, when one
// is known, a hint on the next line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := "Error: " + err.Error()
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal reports err, closes the log and exits with ExitCode(err).
// A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err, "exit", ExitCode(err))
	fmt.Fprintln(stderr, Format(err))
	logger.Close()
	exit(ExitCode(err))
}

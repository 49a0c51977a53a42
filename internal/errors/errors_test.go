package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/habitflow/habitflow/internal/storage"
	"github.com/habitflow/habitflow/internal/storage/postgres"
	"github.com/habitflow/habitflow/internal/validation"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		code int
	}{
		{"nil", nil, "", 0},
		{"plain", fmt.Errorf("disk full"), "Error: disk full", ExitFailure},
		{
			name: "not initialized",
			err:  fmt.Errorf("no data at /tmp/x.db: %w", storage.ErrNotInitialized),
			want: "Error: no data at /tmp/x.db: " + storage.ErrNotInitialized.Error() + "\nHint: run 'habitflow init' to create the storage",
			code: ExitNotInitialized,
		},
		{
			name: "invalid input",
			err:  validation.Invalid("time", "25:00", "expected HH:MM"),
			want: "Error: " + validation.Invalid("time", "25:00", "expected HH:MM").Error(),
			code: ExitInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
			if got := ExitCode(tt.err); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestHintForEmbeddedCredentials(t *testing.T) {
	if hint := Hint(postgres.ErrEmbeddedCredentials); !strings.Contains(hint, "key set --connection") {
		t.Errorf("Hint() = %q", hint)
	}
}

func TestFatal(t *testing.T) {
	var out bytes.Buffer
	code := -1
	oldStderr, oldExit := stderr, exit
	stderr, exit = &out, func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = oldStderr, oldExit })

	Fatal(nil)
	if code != -1 || out.Len() != 0 {
		t.Fatal("Fatal(nil) must do nothing")
	}

	Fatal(storage.ErrNotInitialized)
	if code != ExitNotInitialized {
		t.Errorf("exit code = %d, want %d", code, ExitNotInitialized)
	}
	if !strings.HasPrefix(out.String(), "Error: ") || !strings.Contains(out.String(), "Hint:") {
		t.Errorf("stderr = %q", out.String())
	}
}

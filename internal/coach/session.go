package coach

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"

	"github.com/habitflow/habitflow/internal/directive"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// Session is one chat conversation. At most one turn is in flight at a time.
type Session struct {
	client   *Client
	userName string
	limit    int

	inflight gosync.Mutex
	mu       gosync.Mutex
	history  []Turn
}

// NewSession starts an empty conversation keeping at most limit messages of history
func NewSession(client *Client, userName string, limit int) *Session {
	if limit <= 0 {
		limit = 10
	}
	return &Session{client: client, userName: userName, limit: limit}
}

// Send runs one chat turn. The reply is parsed into prose and directives;
// applying the directives is left to the caller.
func (s *Session) Send(ctx context.Context, appContext, message string) (directive.Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return directive.Result{}, validation.Invalid("message", "", "must not be empty")
	}
	if !s.inflight.TryLock() {
		return directive.Result{}, ErrBusy
	}
	defer s.inflight.Unlock()

	raw, err := s.client.Chat(ctx, ChatRequest{
		Message:    message,
		History:    s.History(),
		UserName:   s.userName,
		AppContext: appContext,
	})
	if err != nil {
		return directive.Result{}, err
	}

	res := directive.Extract(raw)
	s.remember(Turn{Role: RoleUser, Text: message}, Turn{Role: RoleCoach, Text: res.Display()})
	return res, nil
}

// History returns a copy of the retained turns, oldest first
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Reset forgets the conversation
func (s *Session) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

func (s *Session) remember(turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turns...)
	if over := len(s.history) - s.limit; over > 0 {
		s.history = append([]Turn(nil), s.history[over:]...)
	}
}

// AppContext summarises the state the coach needs to resolve habit
// references and answer questions about today.
func AppContext(e *engine.Engine) string {
	today := e.Today()
	profile := e.Profile()
	level := e.Level()

	var b strings.Builder
	fmt.Fprintf(&b, "Tanggal %s. Level %d (%s), XP %d, streak %d hari, progress hari ini %d%%.",
		today, level.Level, level.Title, profile.XP, e.GlobalStreak(), e.TodayCompletionPct())

	habits := e.Habits()
	if len(habits) == 0 {
		b.WriteString(" Belum ada habit.")
	} else {
		b.WriteString(" Habits:")
		for _, h := range habits {
			status := e.LogStatus(h.ID, today)
			if status == models.StatusNone {
				status = "pending"
			}
			fmt.Fprintf(&b, " [id=%s] %s %s (%s)", h.ID, h.Icon, h.Name, status)
			if h.Time != "" {
				fmt.Fprintf(&b, " jam %s", h.Time)
			}
			b.WriteString(";")
		}
	}

	if agenda := e.ScheduleFor(today); len(agenda) > 0 {
		fmt.Fprintf(&b, " Agenda hari ini: %s.", strings.Join(agenda, ", "))
	}
	return b.String()
}

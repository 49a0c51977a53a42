package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// AnalysisRequest is the structured payload of the analysis mode
type AnalysisRequest struct {
	Habits          []engine.HabitStat
	StreakDays      int
	WeeklyPct       int
	DisciplineScore int
	Message         string
}

// Analysis is the coach's verdict. Every field is always populated.
type Analysis struct {
	Strongest     string `json:"strongest"`
	Weakest       string `json:"weakest"`
	Improvement   string `json:"improvement"`
	NewHabit      string `json:"newHabit"`
	Encouragement string `json:"encouragement"`
}

const (
	fallbackStrongest     = "Your consistency"
	fallbackWeakest       = "Keep tracking more data"
	fallbackImprovement   = "Stay consistent for another week"
	fallbackNewHabit      = "Journal for 5 minutes daily"
	fallbackEncouragement = "You're building something great."
)

// NewAnalysisRequest collects the current statistics of e
func NewAnalysisRequest(e *engine.Engine, message string) AnalysisRequest {
	return AnalysisRequest{
		Habits:          e.HabitStats(),
		StreakDays:      e.GlobalStreak(),
		WeeklyPct:       e.WeeklyCompletionPct(),
		DisciplineScore: e.DisciplineScore(),
		Message:         message,
	}
}

// NewDailyEvalRequest is an analysis request about today alone. Its message
// names the habits done today and the ones still open.
func NewDailyEvalRequest(e *engine.Engine) AnalysisRequest {
	return NewAnalysisRequest(e, DailyEvalMessage(e))
}

func DailyEvalMessage(e *engine.Engine) string {
	today := e.Today()
	var done, open []string
	for _, h := range e.Habits() {
		if e.LogStatus(h.ID, today) == models.StatusDone {
			done = append(done, h.Name)
		} else {
			open = append(open, h.Name)
		}
	}
	return fmt.Sprintf("Daily evaluation: done [%s], missed [%s]", strings.Join(done, ", "), strings.Join(open, ", "))
}

// Validate enforces the payload limits and clips the free-text message
func (r *AnalysisRequest) Validate() error {
	if len(r.Habits) > constants.MaxAnalysisHabits {
		return validation.Invalid("habits", "", fmt.Sprintf("too many habits (max %d)", constants.MaxAnalysisHabits))
	}
	for _, h := range r.Habits {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return validation.Invalid("habit name", "", "each habit must have a non-empty name")
		}
		if utf8.RuneCountInString(h.Name) > constants.MaxHabitNameLength {
			return validation.Invalid("habit name", "", fmt.Sprintf("too long (max %d chars)", constants.MaxHabitNameLength))
		}
	}
	r.Message = strings.TrimSpace(truncate(r.Message, constants.MaxCoachMessageLen))
	return nil
}

// ParseAnalysis decodes a model reply. Missing fields get safe defaults; a
// reply that is not JSON at all becomes the encouragement.
func ParseAnalysis(raw string) Analysis {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &fields); err != nil {
		return Analysis{
			Strongest:     fallbackStrongest,
			Weakest:       "Unknown",
			Improvement:   "Keep tracking daily.",
			NewHabit:      "Take a 5-minute walk.",
			Encouragement: truncate(strings.TrimSpace(raw), constants.MaxEncouragement),
		}
	}
	return Analysis{
		Strongest:     stringField(fields, "strongest", fallbackStrongest),
		Weakest:       stringField(fields, "weakest", fallbackWeakest),
		Improvement:   stringField(fields, "improvement", fallbackImprovement),
		NewHabit:      stringField(fields, "newHabit", fallbackNewHabit),
		Encouragement: stringField(fields, "encouragement", fallbackEncouragement),
	}
}

// extractJSON strips a markdown code fence some models wrap around JSON
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// stringField reads a field the way a loosely typed reply may carry it:
// null, empty and false fall back, numbers and booleans are stringified.
func stringField(fields map[string]interface{}, key, fallback string) string {
	switch v := fields[key].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case float64:
		if v != 0 {
			return fmt.Sprint(v)
		}
	case bool:
		if v {
			return "true"
		}
	}
	return fallback
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

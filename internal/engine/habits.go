package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// HabitInput carries the user supplied fields of a new habit
type HabitInput struct {
	Name     string
	Icon     string
	Category string
	Energy   models.Energy
	Time     string
	Notes    string
}

// HabitUpdate changes only the non-nil fields
type HabitUpdate struct {
	Name     *string
	Icon     *string
	Category *string
	Energy   *models.Energy
	Time     *string
	Notes    *string
}

// AddHabit creates a habit with a fresh identifier and grants the add-habit bonus
func (e *Engine) AddHabit(in HabitInput) (models.Habit, error) {
	name, err := validation.ValidateHabitName(in.Name)
	if err != nil {
		return models.Habit{}, err
	}
	if err := validation.ValidateTime(in.Time); err != nil {
		return models.Habit{}, err
	}
	energy := in.Energy
	if energy == "" {
		energy = models.EnergyMedium
	}
	if !energy.IsValid() {
		return models.Habit{}, validation.Invalid("energy", string(in.Energy), "expected low, medium or high")
	}

	h := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Icon:      orDefault(in.Icon, constants.DefaultHabitIcon),
		Category:  orDefault(strings.TrimSpace(in.Category), constants.DefaultCategory),
		Energy:    energy,
		Time:      in.Time,
		XPReward:  energy.XPReward(),
		Notes:     in.Notes,
		CreatedAt: e.now(),
	}
	e.habits = append(e.habits, h)
	e.logs[h.ID] = make(map[string]models.Status)

	e.AddXP(constants.XPAddHabitBonus)
	e.EvaluateBadges()
	return h, nil
}

// UpdateHabit applies the non-nil fields of upd. The identifier never changes.
func (e *Engine) UpdateHabit(id string, upd HabitUpdate) (models.Habit, error) {
	idx, err := e.habitIndex(id)
	if err != nil {
		return models.Habit{}, err
	}
	h := e.habits[idx]

	if upd.Name != nil {
		name, err := validation.ValidateHabitName(*upd.Name)
		if err != nil {
			return models.Habit{}, err
		}
		h.Name = name
	}
	if upd.Time != nil {
		if err := validation.ValidateTime(*upd.Time); err != nil {
			return models.Habit{}, err
		}
		h.Time = *upd.Time
	}
	if upd.Energy != nil {
		if !upd.Energy.IsValid() {
			return models.Habit{}, validation.Invalid("energy", string(*upd.Energy), "expected low, medium or high")
		}
		h.Energy = *upd.Energy
		h.XPReward = h.Energy.XPReward()
	}
	if upd.Icon != nil {
		h.Icon = orDefault(*upd.Icon, constants.DefaultHabitIcon)
	}
	if upd.Category != nil {
		h.Category = orDefault(strings.TrimSpace(*upd.Category), constants.DefaultCategory)
	}
	if upd.Notes != nil {
		h.Notes = *upd.Notes
	}

	e.habits[idx] = h
	return h, nil
}

// DeleteHabit removes a habit together with all of its log entries
func (e *Engine) DeleteHabit(id string) error {
	idx, err := e.habitIndex(id)
	if err != nil {
		return err
	}
	e.habits = append(e.habits[:idx], e.habits[idx+1:]...)
	delete(e.logs, id)
	return nil
}

// Habit returns the habit with the given identifier
func (e *Engine) Habit(id string) (models.Habit, bool) {
	for _, h := range e.habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Habits returns all habits in creation order
func (e *Engine) Habits() []models.Habit {
	out := make([]models.Habit, len(e.habits))
	copy(out, e.habits)
	return out
}

// FindHabit resolves a query as an exact identifier first, then as a
// case-insensitive substring of a habit name (first habit in order wins).
func (e *Engine) FindHabit(query string) (models.Habit, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Habit{}, false
	}
	if h, ok := e.Habit(query); ok {
		return h, true
	}
	q := strings.ToLower(query)
	for _, h := range e.habits {
		if strings.Contains(strings.ToLower(h.Name), q) {
			return h, true
		}
	}
	return models.Habit{}, false
}

func (e *Engine) habitIndex(id string) (int, error) {
	if err := validation.ValidateID(id); err != nil {
		return -1, err
	}
	for i, h := range e.habits {
		if h.ID == id {
			return i, nil
		}
	}
	return -1, validation.NotFound(id)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}


package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/habitflow/habitflow/internal/migration"
	"github.com/habitflow/habitflow/internal/models"
)

const (
	dateKindRest    = "rest"
	dateKindPerfect = "perfect"
)

// userTables are cleared on save, children first
var userTables = []string{"habit_logs", "habits", "profile_badges", "profile_dates", "schedule_notes", "profiles"}

// LoadSnapshot reads the full state of a user from the shared relational
// schema. Queries are written with ? placeholders and rebound per dialect.
func LoadSnapshot(db *sql.DB, d migration.Dialect, userID string) (models.Snapshot, error) {
	if db == nil {
		return models.Snapshot{}, ErrNotInitialized
	}
	snap := EmptySnapshot("")

	var restWeekday sql.NullInt64
	err := db.QueryRow(d.Rebind(`
		SELECT xp, freeze_tokens, rest_days_used, freezes_used, focus_sessions,
			total_completions, best_streak, display_name, active_costume, rest_weekday
		FROM profiles WHERE user_id = ?`), userID).Scan(
		&snap.Profile.XP, &snap.Profile.FreezeTokens, &snap.Profile.RestDaysUsed,
		&snap.Profile.FreezesUsed, &snap.Profile.FocusSessions, &snap.Profile.TotalCompletions,
		&snap.Profile.BestStreak, &snap.Profile.DisplayName, &snap.Profile.ActiveCostume, &restWeekday,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if restWeekday.Valid {
		wd := time.Weekday(restWeekday.Int64)
		snap.Profile.RestWeekday = &wd
	}

	if snap.Habits, err = loadHabits(db, d, userID); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Logs, err = loadLogs(db, d, userID); err != nil {
		return models.Snapshot{}, err
	}

	if snap.Profile.EarnedBadges, err = loadBadges(db, d, userID); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadProfileDates(db, d, userID, &snap.Profile); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadNotes(db, d, userID, snap.Profile.Notes); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func loadBadges(db *sql.DB, d migration.Dialect, userID string) ([]string, error) {
	rows, err := db.Query(d.Rebind("SELECT badge_id FROM profile_badges WHERE user_id = ? ORDER BY position"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read badges: %w", err)
	}
	defer rows.Close()

	badges := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read badges: %w", err)
	}
	return badges, nil
}

// loadProfileDates fills the rest and perfect day sets of p
func loadProfileDates(db *sql.DB, d migration.Dialect, userID string, p *models.ProgressProfile) error {
	rows, err := db.Query(d.Rebind("SELECT kind, date FROM profile_dates WHERE user_id = ? ORDER BY date"), userID)
	if err != nil {
		return fmt.Errorf("failed to read profile dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, date string
		if err := rows.Scan(&kind, &date); err != nil {
			return fmt.Errorf("failed to scan profile date: %w", err)
		}
		switch kind {
		case dateKindRest:
			p.RestDays = append(p.RestDays, date)
		case dateKindPerfect:
			p.PerfectDates = append(p.PerfectDates, date)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read profile dates: %w", err)
	}
	return nil
}

func loadNotes(db *sql.DB, d migration.Dialect, userID string, notes map[string]string) error {
	rows, err := db.Query(d.Rebind("SELECT date, content FROM schedule_notes WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date, content string
		if err := rows.Scan(&date, &content); err != nil {
			return fmt.Errorf("failed to scan schedule: %w", err)
		}
		notes[date] = content
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	return nil
}

func loadHabits(db *sql.DB, d migration.Dialect, userID string) ([]models.Habit, error) {
	rows, err := db.Query(d.Rebind(`
		SELECT id, name, icon, category, energy, time, xp_reward, notes, created_at
		FROM habits WHERE user_id = ? ORDER BY position`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		var energy, createdAt string
		if err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.Category, &energy, &h.Time, &h.XPReward, &h.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.Energy = models.ParseEnergy(energy)
		h.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func loadLogs(db *sql.DB, d migration.Dialect, userID string) ([]models.LogEntry, error) {
	rows, err := db.Query(d.Rebind("SELECT habit_id, date, status FROM habit_logs WHERE user_id = ? ORDER BY habit_id, date"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	defer rows.Close()

	logs := []models.LogEntry{}
	for rows.Next() {
		var entry models.LogEntry
		var status string
		if err := rows.Scan(&entry.HabitID, &entry.Date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		s, ok := models.ParseStatus(status)
		if !ok || s == models.StatusNone {
			continue
		}
		entry.Status = s
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// SaveSnapshot replaces the stored state of a user inside one transaction
func SaveSnapshot(db *sql.DB, d migration.Dialect, userID string, snap models.Snapshot) error {
	if db == nil {
		return ErrNotInitialized
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...interface{}) error {
		_, err := tx.Exec(d.Rebind(query), args...)
		return err
	}

	for _, table := range userTables {
		if err := exec("DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	p := snap.Profile
	var restWeekday interface{}
	if p.RestWeekday != nil {
		restWeekday = int(*p.RestWeekday)
	}
	if err := exec(`
		INSERT INTO profiles (user_id, xp, freeze_tokens, rest_days_used, freezes_used, focus_sessions,
			total_completions, best_streak, display_name, active_costume, rest_weekday)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.XP, p.FreezeTokens, p.RestDaysUsed, p.FreezesUsed, p.FocusSessions,
		p.TotalCompletions, p.BestStreak, p.DisplayName, p.ActiveCostume, restWeekday,
	); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	for i, h := range snap.Habits {
		if err := exec(`
			INSERT INTO habits (user_id, id, position, name, icon, category, energy, time, xp_reward, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, h.ID, i, h.Name, h.Icon, h.Category, string(h.Energy), h.Time, h.XPReward, h.Notes,
			h.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to write habit %s: %w", h.ID, err)
		}
	}

	for _, entry := range snap.Logs {
		if entry.Status == models.StatusNone {
			continue
		}
		if err := exec("INSERT INTO habit_logs (user_id, habit_id, date, status) VALUES (?, ?, ?, ?)",
			userID, entry.HabitID, entry.Date, string(entry.Status)); err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
	}

	for i, id := range p.EarnedBadges {
		if err := exec("INSERT INTO profile_badges (user_id, badge_id, position) VALUES (?, ?, ?)", userID, id, i); err != nil {
			return fmt.Errorf("failed to write badge: %w", err)
		}
	}

	dates := map[string][]string{dateKindRest: p.RestDays, dateKindPerfect: p.PerfectDates}
	for kind, list := range dates {
		for _, date := range list {
			if err := exec("INSERT INTO profile_dates (user_id, kind, date) VALUES (?, ?, ?)", userID, kind, date); err != nil {
				return fmt.Errorf("failed to write %s date: %w", kind, err)
			}
		}
	}

	noteDates := make([]string, 0, len(p.Notes))
	for date := range p.Notes {
		noteDates = append(noteDates, date)
	}
	sort.Strings(noteDates)
	for _, date := range noteDates {
		if err := exec("INSERT INTO schedule_notes (user_id, date, content) VALUES (?, ?, ?)", userID, date, p.Notes[date]); err != nil {
			return fmt.Errorf("failed to write schedule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

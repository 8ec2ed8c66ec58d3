package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const habitColumns = `id, title, category, description, image, reminder_time, user_name, user_email, created_at`

func (s *Store) SaveHabits(habits []models.Habit, fetchedAt time.Time) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertHabits(tx, habits, fetchedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ReplaceUserHabits(email string, habits []models.Habit, fetchedAt time.Time) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cached, err := userHabitIDs(tx, email)
	if err != nil {
		return err
	}
	for _, id := range storage.StaleIDs(cached, habits) {
		if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = $1", id); err != nil {
			return fmt.Errorf("dropping completions for %s: %w", id, err)
		}
		if _, err := tx.Exec("DELETE FROM habits WHERE id = $1", id); err != nil {
			return fmt.Errorf("dropping habit %s: %w", id, err)
		}
	}

	if err := upsertHabits(tx, habits, fetchedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func userHabitIDs(tx *sql.Tx, email string) ([]string, error) {
	rows, err := tx.Query("SELECT id FROM habits WHERE user_email = $1", email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func upsertHabits(tx *sql.Tx, habits []models.Habit, fetchedAt time.Time) error {
	upsert, err := tx.Prepare(`
		INSERT INTO habits (` + habitColumns + `, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			reminder_time = EXCLUDED.reminder_time,
			user_name = EXCLUDED.user_name,
			user_email = EXCLUDED.user_email,
			created_at = EXCLUDED.created_at,
			fetched_at = EXCLUDED.fetched_at`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	insertCompletion, err := tx.Prepare("INSERT INTO completions (id, habit_id, completed_at) VALUES ($1, $2, $3)")
	if err != nil {
		return err
	}
	defer insertCompletion.Close()

	for _, h := range habits {
		if h.ID == "" {
			return fmt.Errorf("cannot cache habit %q without an id", h.Title)
		}

		var createdAt sql.NullTime
		if !h.CreatedAt.IsZero() {
			createdAt = sql.NullTime{Time: h.CreatedAt.UTC(), Valid: true}
		}

		if _, err := upsert.Exec(h.ID, h.Title, h.Category, h.Description, h.Image, h.ReminderTime,
			h.UserName, h.UserEmail, createdAt, fetchedAt.UTC()); err != nil {
			return fmt.Errorf("caching habit %s: %w", h.ID, err)
		}

		if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = $1", h.ID); err != nil {
			return fmt.Errorf("clearing completions for %s: %w", h.ID, err)
		}
		for _, e := range h.CompletionHistory {
			if !e.Valid() {
				continue
			}
			if _, err := insertCompletion.Exec(uuid.New(), h.ID, e.Date.UTC()); err != nil {
				return fmt.Errorf("caching completion for %s: %w", h.ID, err)
			}
		}
	}
	return nil
}

func (s *Store) AddCompletion(habitID string, at time.Time) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM habits WHERE id = $1)", habitID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	_, err := s.db.Exec("INSERT INTO completions (id, habit_id, completed_at) VALUES ($1, $2, $3)",
		uuid.New(), habitID, at.UTC())
	return err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotInitialized
	}
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
		}
		return models.Habit{}, err
	}

	history, err := s.completionsFor(id)
	if err != nil {
		return models.Habit{}, err
	}
	h.CompletionHistory = history
	return h, nil
}

func (s *Store) GetHabitsByUser(email string) ([]models.Habit, error) {
	return s.queryHabits(`SELECT `+habitColumns+` FROM habits WHERE user_email = $1 ORDER BY created_at DESC NULLS LAST, title`, email)
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits ORDER BY created_at DESC NULLS LAST, title`)
}

func (s *Store) queryHabits(query string, args ...any) ([]models.Habit, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range habits {
		history, err := s.completionsFor(habits[i].ID)
		if err != nil {
			return nil, err
		}
		habits[i].CompletionHistory = history
	}
	return habits, nil
}

func (s *Store) completionsFor(habitID string) ([]models.CompletionEvent, error) {
	rows, err := s.db.Query("SELECT completed_at FROM completions WHERE habit_id = $1 ORDER BY completed_at", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []models.CompletionEvent{}
	for rows.Next() {
		var completedAt time.Time
		if err := rows.Scan(&completedAt); err != nil {
			return nil, err
		}
		history = append(history, models.CompletionEvent{Date: completedAt})
	}
	return history, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt sql.NullTime
	if err := row.Scan(&h.ID, &h.Title, &h.Category, &h.Description, &h.Image, &h.ReminderTime,
		&h.UserName, &h.UserEmail, &createdAt); err != nil {
		return models.Habit{}, err
	}
	if createdAt.Valid {
		h.CreatedAt = createdAt.Time
	}
	return h, nil
}

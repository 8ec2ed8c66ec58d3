// Package storage defines the local cache of habits fetched from the habit
// service, together with the persisted CLI settings.
package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

var (
	// ErrNotFound is returned when a habit is not in the cache.
	ErrNotFound = errors.New("not found in local cache")
	// ErrNotInitialized is returned by Load when the cache has never been
	// created.
	ErrNotInitialized = errors.New("storage not initialized, run 'habitline init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Migrate applies pending schema migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
	// SchemaVersion returns the applied schema version and the newest
	// version the embedded migrations provide.
	SchemaVersion() (current, latest int, err error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	// SaveHabits upserts each habit and replaces its cached completion
	// history. Invalid completion events are dropped.
	SaveHabits(habits []models.Habit, fetchedAt time.Time) error
	// ReplaceUserHabits makes habits the complete cached set for email,
	// dropping cached habits of that user that are no longer present.
	ReplaceUserHabits(email string, habits []models.Habit, fetchedAt time.Time) error
	GetHabit(id string) (models.Habit, error)
	GetHabitsByUser(email string) ([]models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	// AddCompletion records one completion of a cached habit.
	AddCompletion(habitID string, at time.Time) error

	// Utils
	GetConfigPath() string
}

package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/utils"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump a cached habit as JSON."`
	DumpHabits   *DebugDumpHabitsCmd   `cmd:"" help:"Dump all cached habits as JSON."`
	DumpMetrics  *DebugDumpMetricsCmd  `cmd:"" help:"Dump the computed metrics of a cached habit as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, what string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, "output", map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return printJSON(ctx, "habit", habit)
}

type DebugDumpHabitsCmd struct {
	User string `help:"Only dump habits owned by this email."`
}

func (cmd *DebugDumpHabitsCmd) Run(ctx *cli.Context) error {
	habits := ctx.Store.GetAllHabits
	if cmd.User != "" {
		habits = func() ([]models.Habit, error) { return ctx.Store.GetHabitsByUser(cmd.User) }
	}
	list, err := habits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	return printJSON(ctx, "habits", list)
}

type DebugDumpMetricsCmd struct {
	ID   string `arg:"" help:"ID of the habit."`
	AsOf string `name:"as-of" help:"Evaluate at the end of this date (YYYY-MM-DD)."`
}

type metricsDump struct {
	HabitID        string                 `json:"habit_id"`
	EvaluatedAt    string                 `json:"evaluated_at"`
	Streak         int                    `json:"streak"`
	LongestStreak  int                    `json:"longest_streak"`
	Progress       int                    `json:"progress"`
	CompletedToday bool                   `json:"completed_today"`
	Week           []progress.WeeklyPoint `json:"week"`
}

func (cmd *DebugDumpMetricsCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	now, err := ctx.Now()
	if err != nil {
		return err
	}
	at, err := utils.AsOf(cmd.AsOf, now, now.Location())
	if err != nil {
		return err
	}

	s := progress.Summarize(habit, at)
	return printJSON(ctx, "metrics", metricsDump{
		HabitID:        habit.ID,
		EvaluatedAt:    at.Format(time.RFC3339),
		Streak:         s.Streak,
		LongestStreak:  s.LongestStreak,
		Progress:       s.Progress,
		CompletedToday: s.CompletedToday,
		Week:           progress.BuildWeeklySeries([]models.Habit{habit}, at),
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, "settings", settings)
}

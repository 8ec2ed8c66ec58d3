package system

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

func seedHabit(t *testing.T, store storage.Provider) {
	t.Helper()
	habit := models.Habit{
		ID:        "test-habit-id",
		Title:     "Read 10 pages",
		Category:  "Study",
		UserEmail: "sam@example.com",
		CompletionHistory: []models.CompletionEvent{
			{Date: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)},
			{Date: time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)},
		},
	}
	if err := store.SaveHabits([]models.Habit{habit}, testNow); err != nil {
		t.Fatalf("failed to cache test habit: %v", err)
	}
}

func TestDebugDBPathCmd(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug db-path command failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["path"] != store.GetConfigPath() {
		t.Errorf("path = %q, want %q", got["path"], store.GetConfigPath())
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)
	seedHabit(t, store)

	if err := (&DebugDumpHabitCmd{ID: "test-habit-id"}).Run(ctx); err != nil {
		t.Fatalf("debug dump-habit command failed: %v", err)
	}

	var habit models.Habit
	if err := json.Unmarshal(out.Bytes(), &habit); err != nil {
		t.Fatalf("output is not a habit: %v", err)
	}
	if habit.ID != "test-habit-id" || len(habit.CompletionHistory) != 2 {
		t.Errorf("unexpected habit dump: %+v", habit)
	}
}

func TestDebugDumpHabitCmd_NotFound(t *testing.T) {
	ctx, _, _ := setupTestDoctorDB(t)

	err := (&DebugDumpHabitCmd{ID: "nonexistent"}).Run(ctx)
	if err == nil {
		t.Fatal("expected error for non-existent habit")
	}
	if !strings.Contains(err.Error(), "habit not found") {
		t.Errorf("expected 'habit not found' error, got: %v", err)
	}
}

func TestDebugDumpHabitsCmd_FiltersByUser(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)
	seedHabit(t, store)

	if err := (&DebugDumpHabitsCmd{User: "nobody@example.com"}).Run(ctx); err != nil {
		t.Fatalf("debug dump-habits command failed: %v", err)
	}
	var habits []models.Habit
	if err := json.Unmarshal(out.Bytes(), &habits); err != nil {
		t.Fatalf("output is not a habit list: %v\n%s", err, out)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits for another user, got %d", len(habits))
	}

	out.Reset()
	if err := (&DebugDumpHabitsCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug dump-habits command failed: %v", err)
	}
	if err := json.Unmarshal(out.Bytes(), &habits); err != nil {
		t.Fatalf("output is not a habit list: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(habits))
	}
}

func TestDebugDumpMetricsCmd(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)
	seedHabit(t, store)

	if err := (&DebugDumpMetricsCmd{ID: "test-habit-id"}).Run(ctx); err != nil {
		t.Fatalf("debug dump-metrics command failed: %v", err)
	}

	var got metricsDump
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Streak != 2 || got.Progress != 7 || got.CompletedToday {
		t.Errorf("unexpected metrics: %+v", got)
	}
	if len(got.Week) != 7 || got.Week[6].Count != 0 || got.Week[5].Count != 1 {
		t.Errorf("unexpected weekly series: %+v", got.Week)
	}
}

func TestDebugDumpMetricsCmd_AsOf(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)
	seedHabit(t, store)

	if err := (&DebugDumpMetricsCmd{ID: "test-habit-id", AsOf: "2025-06-20"}).Run(ctx); err != nil {
		t.Fatalf("debug dump-metrics command failed: %v", err)
	}
	var got metricsDump
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Streak != 0 {
		t.Errorf("streak as of 2025-06-20 = %d, want 0", got.Streak)
	}
	if got.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", got.LongestStreak)
	}
}

func TestDebugDumpSettingsCmd(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)

	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug dump-settings command failed: %v", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(out.Bytes(), &settings); err != nil {
		t.Fatalf("output is not settings JSON: %v", err)
	}
	if settings.Timezone != "Local" || !settings.OfflineFallback {
		t.Errorf("unexpected settings dump: %+v", settings)
	}
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
)

var now = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func TestStreakAndPercent(t *testing.T) {
	assert.Equal(t, "0 Days", Streak(0))
	assert.Equal(t, "12 Days", Streak(12))
	assert.Equal(t, "67%", Percent(67))
}

func TestProgressBarShowsValue(t *testing.T) {
	for _, p := range []int{0, 50, 100} {
		out := ProgressBar(p)
		assert.True(t, strings.HasSuffix(out, Percent(p)), "ProgressBar(%d) = %q", p, out)
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "-", Date(time.Time{}, time.UTC))

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 02:00 UTC is still the previous evening in New York.
	assert.Equal(t, "2025-06-17", Date(time.Date(2025, 6, 18, 2, 0, 0, 0, time.UTC), ny))
}

func TestMyHabitsTable(t *testing.T) {
	habits := []models.Habit{
		{
			ID:        "h1",
			Title:     "Read",
			Category:  "Study",
			CreatedAt: now.AddDate(0, 0, -10),
			CompletionHistory: []models.CompletionEvent{
				{Date: now},
				{Date: now.AddDate(0, 0, -1)},
			},
		},
		{ID: "h2", Title: "Run", Category: "Fitness"},
	}

	out := MyHabitsTable(habits, now)
	for _, want := range []string{"Read", "Study", "2 Days", "7%", "done", "2025-06-08", "Run", "0 Days", "pending"} {
		assert.Contains(t, out, want)
	}
}

func TestPublicHabitsTableFallsBackToEmail(t *testing.T) {
	out := PublicHabitsTable([]models.Habit{
		{ID: "p1", Title: "Stretch", UserEmail: "alex@example.com", Description: strings.Repeat("long ", 20)},
	})
	assert.Contains(t, out, "alex@example.com")
	assert.Contains(t, out, "…")
}

func TestHabitDetail(t *testing.T) {
	h := models.Habit{ID: "h1", Title: "Read", Category: "Study", UserName: "Sam", UserEmail: "sam@example.com"}
	out := HabitDetail(h, progress.Summary{Streak: 3, LongestStreak: 5, Progress: 40, CompletedToday: true}, now)

	for _, want := range []string{"Read", "Sam <sam@example.com>", "3 Days", "5 Days", "40%", "done"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Reminder:")
}

func TestWeeklyChart(t *testing.T) {
	series := progress.BuildWeeklySeries([]models.Habit{
		{CompletionHistory: []models.CompletionEvent{{Date: now}, {Date: now.AddDate(0, 0, -2)}}},
		{CompletionHistory: []models.CompletionEvent{{Date: now}}},
	}, now)

	out := WeeklyChart(series)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "two bar rows, a count row and a label row")

	labels := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(labels, "Thu"))
	assert.Contains(t, labels, "Wed")
	assert.Equal(t, 1, strings.Count(lines[0], "██"), "only the peak day reaches the top row")
	assert.Equal(t, 2, strings.Count(lines[1], "██"))
}

func TestWeeklyChartEmpty(t *testing.T) {
	out := WeeklyChart(progress.BuildWeeklySeries(nil, now))
	assert.NotContains(t, out, "██")
	assert.Contains(t, out, "Mon")
}

func TestScaled(t *testing.T) {
	assert.Equal(t, 0, scaled(0, 10, 8))
	assert.Equal(t, 1, scaled(1, 100, 8))
	assert.Equal(t, 8, scaled(100, 100, 8))
}

// Package progress derives streaks, completion rates and chart series from a
// habit's completion history.
//
// Every function is pure: the caller supplies the history and the current
// time, and identical inputs always produce identical outputs. "Local time"
// means the location of the now argument; completion timestamps are
// projected into that location before they are truncated to a day.
// Completions with an invalid date are ignored.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
)

// WeeklyPoint is one bar of the seven-day completion chart.
type WeeklyPoint struct {
	Label string // short weekday name, e.g. "Mon"
	Day   Day
	Count int // habits completed on Day
}

// Summary bundles the per-habit metrics shown in list and detail views.
type Summary struct {
	Streak         int
	LongestStreak  int
	Progress       int
	CompletedToday bool
}

type daySet map[Day]struct{}

func (s daySet) has(d Day) bool {
	_, ok := s[d]
	return ok
}

func distinctDays(history []models.CompletionEvent, loc *time.Location) daySet {
	days := make(daySet, len(history))
	for _, e := range history {
		if !e.Valid() {
			continue
		}
		days[NormalizeDay(e.Date.In(loc))] = struct{}{}
	}
	return days
}

// IsCompletedOnDay reports whether any valid entry of history falls on day
// when read in loc.
func IsCompletedOnDay(history []models.CompletionEvent, day Day, loc *time.Location) bool {
	for _, e := range history {
		if e.Valid() && NormalizeDay(e.Date.In(loc)) == day {
			return true
		}
	}
	return false
}

// IsCompletedToday reports whether history has a completion on now's day.
func IsCompletedToday(history []models.CompletionEvent, now time.Time) bool {
	return IsCompletedOnDay(history, NormalizeDay(now), now.Location())
}

// CalculateStreak returns the number of consecutive days, ending today or
// yesterday, with at least one completion. A streak whose latest day is
// yesterday is still alive: today simply has not been completed yet.
func CalculateStreak(history []models.CompletionEvent, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	days := distinctDays(history, now.Location())
	today := NormalizeDay(now)

	var anchor Day
	switch yesterday := today.AddDays(-1); {
	case days.has(today):
		anchor = today
	case days.has(yesterday):
		anchor = yesterday
	default:
		return 0
	}

	streak := 1
	for d := anchor.AddDays(-1); days.has(d); d = d.AddDays(-1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days
// anywhere in history.
func LongestStreak(history []models.CompletionEvent, loc *time.Location) int {
	days := distinctDays(history, loc)
	if len(days) == 0 {
		return 0
	}

	sorted := make([]Day, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDays(1) == sorted[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CalculateProgress returns the share of the trailing window (today and the
// 29 days before it) with at least one completion, as a rounded percentage.
func CalculateProgress(history []models.CompletionEvent, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	today := NormalizeDay(now)
	start := today.AddDays(-(constants.ProgressWindowDays - 1))

	inWindow := 0
	for d := range distinctDays(history, now.Location()) {
		if d.Before(start) || today.Before(d) {
			continue
		}
		inWindow++
	}

	return int(math.Round(float64(inWindow) / constants.ProgressWindowDays * 100))
}

// BuildWeeklySeries counts, for each of the seven days ending today (oldest
// first), how many habits were completed on that day.
func BuildWeeklySeries(habits []models.Habit, now time.Time) []WeeklyPoint {
	loc := now.Location()
	today := NormalizeDay(now)

	sets := make([]daySet, len(habits))
	for i, h := range habits {
		sets[i] = distinctDays(h.CompletionHistory, loc)
	}

	series := make([]WeeklyPoint, 0, constants.WeeklySeriesDays)
	for i := constants.WeeklySeriesDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		count := 0
		for _, set := range sets {
			if set.has(day) {
				count++
			}
		}
		series = append(series, WeeklyPoint{
			Label: day.Weekday().String()[:3],
			Day:   day,
			Count: count,
		})
	}
	return series
}

// Summarize computes every per-habit metric for h at now.
func Summarize(h models.Habit, now time.Time) Summary {
	return Summary{
		Streak:         CalculateStreak(h.CompletionHistory, now),
		LongestStreak:  LongestStreak(h.CompletionHistory, now.Location()),
		Progress:       CalculateProgress(h.CompletionHistory, now),
		CompletedToday: IsCompletedToday(h.CompletionHistory, now),
	}
}

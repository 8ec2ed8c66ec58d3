package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

func validHabit() models.NewHabit {
	return models.NewHabit{
		Title:        "Read 10 pages",
		Category:     "Study",
		ReminderTime: "21:30",
		Image:        "https://example.com/book.png",
		UserEmail:    "sam@example.com",
	}
}

func hasConflict(result ValidationResult, want ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == want {
			return true
		}
	}
	return false
}

func TestValidateNewHabit(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.NewHabit)
		want   ConflictType
	}{
		{name: "blank title", modify: func(h *models.NewHabit) { h.Title = "   " }, want: ConflictMissingTitle},
		{name: "unknown category", modify: func(h *models.NewHabit) { h.Category = "Leisure" }, want: ConflictInvalidCategory},
		{name: "lowercase category", modify: func(h *models.NewHabit) { h.Category = "study" }, want: ConflictInvalidCategory},
		{name: "bad reminder hour", modify: func(h *models.NewHabit) { h.ReminderTime = "25:00" }, want: ConflictInvalidReminderTime},
		{name: "bad reminder minute", modify: func(h *models.NewHabit) { h.ReminderTime = "12:70" }, want: ConflictInvalidReminderTime},
		{name: "image not a url", modify: func(h *models.NewHabit) { h.Image = "book.png" }, want: ConflictInvalidImageURL},
		{name: "image ftp", modify: func(h *models.NewHabit) { h.Image = "ftp://example.com/book.png" }, want: ConflictInvalidImageURL},
		{name: "missing owner", modify: func(h *models.NewHabit) { h.UserEmail = "" }, want: ConflictMissingOwner},
	}

	validator := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			tt.modify(&h)
			result := validator.ValidateNewHabit(h)
			if !hasConflict(result, tt.want) {
				t.Errorf("expected %s conflict, got %+v", tt.want, result.Conflicts)
			}
		})
	}
}

func TestValidateNewHabit_Valid(t *testing.T) {
	result := New().ValidateNewHabit(validHabit())
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}

	optional := validHabit()
	optional.ReminderTime = ""
	optional.Image = ""
	if result := New().ValidateNewHabit(optional); result.HasConflicts() {
		t.Errorf("optional fields should not be required:\n%s", result.FormatReport())
	}
}

func TestAuditHabits(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	now := time.Date(2025, 6, 18, 10, 0, 0, 0, ny)

	habits := []models.Habit{
		{
			ID:    "h1",
			Title: "Read",
			CompletionHistory: []models.CompletionEvent{
				// Both fall on June 17 in New York.
				{Date: time.Date(2025, 6, 17, 13, 0, 0, 0, time.UTC)},
				{Date: time.Date(2025, 6, 18, 2, 0, 0, 0, time.UTC)},
				{},
			},
		},
		{
			ID:    "h2",
			Title: "Run",
			CompletionHistory: []models.CompletionEvent{
				{Date: time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)},
			},
		},
		{Title: "No id"},
	}

	result := New().AuditHabits(habits, now)

	for _, want := range []ConflictType{ConflictDuplicateCompletion, ConflictInvalidDateTime, ConflictFutureCompletion, ConflictMissingHabitID} {
		if !hasConflict(result, want) {
			t.Errorf("expected %s conflict", want)
		}
	}

	for _, c := range result.Conflicts {
		if c.Type == ConflictDuplicateCompletion && c.Date != "2025-06-17" {
			t.Errorf("duplicate reported on %s, want 2025-06-17", c.Date)
		}
	}
}

func TestAuditHabits_Clean(t *testing.T) {
	now := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
	habits := []models.Habit{{
		ID:    "h1",
		Title: "Read",
		CompletionHistory: []models.CompletionEvent{
			{Date: now.AddDate(0, 0, -1)},
			{Date: now},
		},
	}}

	result := New().AuditHabits(habits, now)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if !strings.Contains(result.FormatReport(), "No conflicts") {
		t.Errorf("unexpected report: %s", result.FormatReport())
	}
}

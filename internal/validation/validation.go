package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
	"github.com/julianstephens/habitline/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingTitle        ConflictType = "missing_title"
	ConflictInvalidCategory     ConflictType = "invalid_category"
	ConflictInvalidReminderTime ConflictType = "invalid_reminder_time"
	ConflictInvalidImageURL     ConflictType = "invalid_image_url"
	ConflictMissingOwner        ConflictType = "missing_owner"
	ConflictMissingHabitID      ConflictType = "missing_habit_id"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictDuplicateCompletion ConflictType = "duplicate_completion"
	ConflictFutureCompletion    ConflictType = "future_completion"
)

// Conflict represents a problem found in a habit or its history
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit titles involved
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habits before submission and audits cached history
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateNewHabit checks a habit payload before it is sent to the service.
func (v *Validator) ValidateNewHabit(h models.NewHabit) ValidationResult {
	var result ValidationResult
	add := func(t ConflictType, format string, args ...any) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf(format, args...),
			Items:       []string{h.Title},
		})
	}

	if strings.TrimSpace(h.Title) == "" {
		add(ConflictMissingTitle, "Title is required")
	}

	if !constants.IsCategory(h.Category) {
		names := make([]string, len(constants.Categories))
		for i, c := range constants.Categories {
			names[i] = string(c)
		}
		add(ConflictInvalidCategory, "Category %q must be one of %s", h.Category, strings.Join(names, ", "))
	}

	if h.ReminderTime != "" && !utils.ValidateTimeFormat(h.ReminderTime) {
		add(ConflictInvalidReminderTime, "Reminder time %q must be HH:MM", h.ReminderTime)
	}

	if h.Image != "" {
		if u, err := url.Parse(h.Image); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add(ConflictInvalidImageURL, "Image %q is not an http(s) URL", h.Image)
		}
	}

	if _, err := mail.ParseAddress(h.UserEmail); err != nil {
		add(ConflictMissingOwner, "Owner email %q is not a valid address", h.UserEmail)
	}

	return result
}

// AuditHabits reports data problems in habits as read in loc at now: invalid
// completion dates, several completions on one day and completions after
// today. The progress calculations already tolerate all of these; the report
// is informational.
func (v *Validator) AuditHabits(habits []models.Habit, now time.Time) ValidationResult {
	var result ValidationResult
	today := progress.NormalizeDay(now)
	loc := now.Location()

	for _, h := range habits {
		if h.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingHabitID,
				Description: fmt.Sprintf("Habit %q has no id", h.Title),
				Items:       []string{h.Title},
			})
		}

		invalid := 0
		perDay := map[progress.Day]int{}
		for _, e := range h.CompletionHistory {
			if !e.Valid() {
				invalid++
				continue
			}
			perDay[progress.NormalizeDay(e.Date.In(loc))]++
		}

		if invalid > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Habit %q has %d completion(s) with an unreadable date", h.Title, invalid),
				Items:       []string{h.Title},
				HabitIDs:    []string{h.ID},
			})
		}

		days := make([]progress.Day, 0, len(perDay))
		for d := range perDay {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		for _, d := range days {
			if n := perDay[d]; n > 1 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateCompletion,
					Description: fmt.Sprintf("Habit %q was completed %d times on %s", h.Title, n, d),
					Date:        d.String(),
					Items:       []string{h.Title},
					HabitIDs:    []string{h.ID},
				})
			}
			if today.Before(d) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictFutureCompletion,
					Description: fmt.Sprintf("Habit %q has a completion dated %s, after today", h.Title, d),
					Date:        d.String(),
					Items:       []string{h.Title},
					HabitIDs:    []string{h.ID},
				})
			}
		}
	}

	return result
}

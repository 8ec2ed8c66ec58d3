// Package render turns habits and progress metrics into terminal text.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87BAC3"))
)

const (
	barWidth    = 30
	chartHeight = 8
	descWidth   = 40
)

// Streak formats a streak the way the habit pages show it.
func Streak(days int) string {
	return fmt.Sprintf("%d Days", days)
}

// Percent formats a 0..100 value.
func Percent(p int) string {
	return strconv.Itoa(p) + "%"
}

// ProgressBar draws p percent as a horizontal bar followed by the value.
func ProgressBar(p int) string {
	bar := progressbar.New(
		progressbar.WithSolidFill("#87BAC3"),
		progressbar.WithWidth(barWidth),
		progressbar.WithoutPercentage(),
	)
	return bar.ViewAs(float64(clamp(p, 0, 100))/100) + " " + Percent(p)
}

// Date formats t as a calendar date in loc. Unknown dates render as "-".
func Date(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(constants.DateFormat)
}

// Today marks whether a habit is done for the day.
func Today(done bool) string {
	if done {
		return doneStyle.Render("✓ done")
	}
	return mutedStyle.Render("pending")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// MyHabitsTable lists the user's habits with their metrics at now.
func MyHabitsTable(habits []models.Habit, now time.Time) string {
	t := newTable("#", "ID", "Title", "Category", "Streak", "30 Days", "Today", "Created")
	for i, h := range habits {
		s := progress.Summarize(h, now)
		t.Row(
			strconv.Itoa(i+1),
			h.ID,
			h.Title,
			h.Category,
			Streak(s.Streak),
			Percent(s.Progress),
			Today(s.CompletedToday),
			Date(h.CreatedAt, now.Location()),
		)
	}
	return t.String()
}

// PublicHabitsTable lists habits shared by other users.
func PublicHabitsTable(habits []models.Habit) string {
	t := newTable("ID", "Title", "Category", "By", "Description")
	for _, h := range habits {
		owner := h.UserName
		if owner == "" {
			owner = h.UserEmail
		}
		t.Row(h.ID, h.Title, h.Category, owner, truncate(h.Description, descWidth))
	}
	return t.String()
}

// HabitDetail renders one habit with its full metrics.
func HabitDetail(h models.Habit, s progress.Summary, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(h.Title))
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%-16s %s\n", label+":", value)
	}
	field("ID", h.ID)
	field("Category", h.Category)
	field("Description", h.Description)
	field("Reminder", h.ReminderTime)
	field("Owner", strings.TrimSpace(h.UserName+" "+angle(h.UserEmail)))
	field("Created", Date(h.CreatedAt, now.Location()))
	b.WriteString("\n")
	field("Current streak", Streak(s.Streak))
	field("Longest streak", Streak(s.LongestStreak))
	field("Last 30 days", ProgressBar(s.Progress))
	field("Today", Today(s.CompletedToday))
	return b.String()
}

// WeeklyChart draws the seven-day completion series as vertical bars with the
// weekday labels underneath.
func WeeklyChart(series []progress.WeeklyPoint) string {
	peak := 0
	for _, p := range series {
		peak = max(peak, p.Count)
	}

	height := min(max(peak, 1), chartHeight)
	var b strings.Builder
	for level := height; level >= 1; level-- {
		for _, p := range series {
			cell := "    "
			if scaled(p.Count, peak, height) >= level {
				cell = " " + barStyle.Render("██") + " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	for _, p := range series {
		fmt.Fprintf(&b, " %2d ", p.Count)
	}
	b.WriteString("\n")
	for _, p := range series {
		fmt.Fprintf(&b, "%-4s", p.Label)
	}
	b.WriteString("\n")
	return b.String()
}

// scaled maps count into 0..height rows, keeping any nonzero count visible.
func scaled(count, peak, height int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	rows := count * height / peak
	return max(rows, 1)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func angle(email string) string {
	if email == "" {
		return ""
	}
	return "<" + email + ">"
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

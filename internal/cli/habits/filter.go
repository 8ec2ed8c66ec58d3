package habits

import (
	"strings"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/models"
)

// featuredCount matches the number of habits the service features.
const featuredCount = 6

// filterCached applies the public listing filters to cached habits.
func filterCached(habits []models.Habit, category, search string) []models.Habit {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if category != "" && h.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(h.Title), search) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func printPublic(ctx *cli.Context, habits []models.Habit, source cli.Source) error {
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	ctx.Println(render.PublicHabitsTable(habits))
	sourceNote(ctx, source)
	return nil
}

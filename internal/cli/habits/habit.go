package habits

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/constants"
	habiterrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Create a new habit."`
	List     HabitListCmd     `cmd:"" help:"List your habits with streak and 30-day progress."`
	Show     HabitShowCmd     `cmd:"" help:"Show one habit in detail."`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit complete for today."`
}

func checkCategory(category string) error {
	if category == "" || constants.IsCategory(category) {
		return nil
	}
	return habiterrors.WithHint(
		fmt.Errorf("unknown category %q", category),
		fmt.Sprintf("Choose one of %v.", constants.Categories),
	)
}

func emptyCacheError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return habiterrors.WithHint(err, "Run 'habitline sync' while online to fill the cache.")
	}
	return err
}

func sourceNote(ctx *cli.Context, source cli.Source) {
	if source == cli.SourceCache {
		ctx.Println("(showing cached data)")
	}
}

func noHabits(ctx *cli.Context, habits []models.Habit) bool {
	if len(habits) > 0 {
		return false
	}
	ctx.Println("You haven't added any habits yet. Use 'habitline habit add' to create one.")
	return true
}

package habits

import (
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
)

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	habits, source, err := ctx.MyHabits(session)
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	if noHabits(ctx, habits) {
		return nil
	}
	ctx.Println(render.MyHabitsTable(habits, now))
	sourceNote(ctx, source)
	return nil
}

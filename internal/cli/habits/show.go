package habits

import (
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
	"github.com/julianstephens/habitline/internal/utils"
)

type HabitShowCmd struct {
	ID   string `arg:"" help:"Habit id."`
	AsOf string `name:"as-of" help:"Evaluate streak and progress at the end of this date (YYYY-MM-DD)."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	at, err := utils.AsOf(c.AsOf, now, now.Location())
	if err != nil {
		return err
	}

	habit, source, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	ctx.Println(render.HabitDetail(habit, progress.Summarize(habit, at), at))
	if c.AsOf != "" {
		ctx.Printf("(as of %s)\n", c.AsOf)
	}
	sourceNote(ctx, source)
	return nil
}

func (c *HabitShowCmd) fetch(ctx *cli.Context) (models.Habit, cli.Source, error) {
	if ctx.Offline {
		h, err := ctx.Store.GetHabit(c.ID)
		return h, cli.SourceCache, emptyCacheError(err)
	}

	// Anonymous reads are fine for public habits.
	token := ""
	if session, err := ctx.Session(); err == nil {
		token = session.Token
	}
	client, err := ctx.Client(token)
	if err != nil {
		return models.Habit{}, "", err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	h, err := client.Get(reqCtx, c.ID)
	if err != nil {
		if cli.Unreachable(err) {
			if cached, cacheErr := ctx.Store.GetHabit(c.ID); cacheErr == nil {
				return cached, cli.SourceCache, nil
			}
		}
		return models.Habit{}, "", cli.MapAPIError(err)
	}
	return h, cli.SourceAPI, nil
}

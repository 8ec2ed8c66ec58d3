package habits

import (
	"errors"

	"github.com/julianstephens/habitline/internal/api"
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/progress"
	"github.com/julianstephens/habitline/internal/storage"
)

const alreadyDone = "You already completed this today!"

type HabitCompleteCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if ctx.Offline {
		return errors.New("completing a habit requires the habit service; drop --offline")
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	client, err := ctx.Client(session.Token)
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	habit, err := client.Get(reqCtx, c.ID)
	if err != nil {
		return cli.MapAPIError(err)
	}
	if progress.IsCompletedToday(habit.CompletionHistory, now) {
		ctx.Println(alreadyDone)
		return nil
	}

	result, err := client.Complete(reqCtx, c.ID)
	switch {
	case errors.Is(err, api.ErrAlreadyCompleted):
		ctx.Println(alreadyDone)
		return nil
	case err != nil:
		return cli.MapAPIError(err)
	case result.ModifiedCount == 0:
		return errors.New("the habit service did not record the completion")
	}

	habit.CompletionHistory = append(habit.CompletionHistory, models.CompletionEvent{Date: now})
	switch err := ctx.Store.AddCompletion(c.ID, now); {
	case errors.Is(err, storage.ErrNotFound):
		ctx.CacheHabits([]models.Habit{habit})
	case err != nil:
		logger.Warn("Failed to record completion locally", "id", c.ID, "error", err)
	}
	logger.Info("Habit completed", "id", c.ID)

	s := progress.Summarize(habit, now)
	ctx.Printf("Great job! %s is done for today.\n", habit.Title)
	ctx.Printf("Current streak: %s  |  Last 30 days: %s\n", render.Streak(s.Streak), render.Percent(s.Progress))
	return nil
}

package habits

import (
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/progress"
)

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
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

	ctx.Printf("Welcome back, %s\n\n", displayName(session.Claims.Name, session.Claims.Email))

	series := progress.BuildWeeklySeries(habits, now)
	total := 0
	for _, p := range series {
		total += p.Count
	}
	if total == 0 {
		ctx.Println("No habit data to display. Start completing habits!")
	} else {
		ctx.Println("Weekly completions")
		ctx.Println(render.WeeklyChart(series))
	}

	doneToday, best := 0, 0
	for _, h := range habits {
		s := progress.Summarize(h, now)
		if s.CompletedToday {
			doneToday++
		}
		if s.Streak > best {
			best = s.Streak
		}
	}

	ctx.Printf("\nHabits: %d  |  Done today: %d/%d  |  Completions this week: %d  |  Best streak: %s\n",
		len(habits), doneToday, len(habits), total, render.Streak(best))
	sourceNote(ctx, source)
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}

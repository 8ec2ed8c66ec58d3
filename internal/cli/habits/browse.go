package habits

import (
	"github.com/julianstephens/habitline/internal/api"
	"github.com/julianstephens/habitline/internal/cli"
)

type BrowseCmd struct {
	Category string `short:"c" help:"Only show habits in this category."`
	Search   string `short:"s" help:"Case-insensitive title search."`
}

func (c *BrowseCmd) Run(ctx *cli.Context) error {
	if err := checkCategory(c.Category); err != nil {
		return err
	}
	if ctx.Offline {
		habits, err := ctx.Store.GetAllHabits()
		if err != nil {
			return err
		}
		return printPublic(ctx, filterCached(habits, c.Category, c.Search), cli.SourceCache)
	}

	client, err := ctx.Client("")
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	habits, err := client.ListPublic(reqCtx, api.Filter{Category: c.Category, Search: c.Search})
	if err != nil {
		return cli.MapAPIError(err)
	}
	return printPublic(ctx, habits, cli.SourceAPI)
}

type FeaturedCmd struct{}

func (c *FeaturedCmd) Run(ctx *cli.Context) error {
	if ctx.Offline {
		habits, err := ctx.Store.GetAllHabits()
		if err != nil {
			return err
		}
		if len(habits) > featuredCount {
			habits = habits[:featuredCount]
		}
		return printPublic(ctx, habits, cli.SourceCache)
	}

	client, err := ctx.Client("")
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	habits, err := client.Featured(reqCtx)
	if err != nil {
		return cli.MapAPIError(err)
	}
	return printPublic(ctx, habits, cli.SourceAPI)
}

package habits

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/utils"
	"github.com/julianstephens/habitline/internal/validation"
)

type HabitAddCmd struct {
	Title        string `arg:"" optional:"" help:"Habit title. Omit to fill in an interactive form."`
	Category     string `short:"c" help:"One of Morning, Work, Fitness, Evening, Study."`
	Description  string `short:"d" help:"Longer description."`
	Image        string `help:"Image URL."`
	ReminderTime string `name:"reminder" help:"Reminder time (HH:MM)."`
}

// interactive is replaced in tests.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if ctx.Offline {
		return errors.New("creating a habit requires the habit service; drop --offline")
	}

	if strings.TrimSpace(c.Title) == "" {
		if !interactive() {
			return errors.New("a title is required when not running in a terminal")
		}
		if err := c.form().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Cancelled.")
				return nil
			}
			return err
		}
	}

	habit := models.NewHabit{
		Title:        strings.TrimSpace(c.Title),
		Category:     c.Category,
		Description:  strings.TrimSpace(c.Description),
		Image:        strings.TrimSpace(c.Image),
		ReminderTime: c.ReminderTime,
		UserName:     session.Claims.Name,
		UserEmail:    session.Claims.Email,
	}

	result := validation.New().ValidateNewHabit(habit)
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}

	client, err := ctx.Client(session.Token)
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	created, err := client.Create(reqCtx, habit)
	if err != nil {
		return cli.MapAPIError(err)
	}
	if created.InsertedID == "" {
		return errors.New("failed to add habit: the service did not return an id")
	}

	logger.Info("Habit created", "id", created.InsertedID, "title", habit.Title)
	ctx.Printf("New habit added: %s (%s)\n", habit.Title, created.InsertedID)
	return nil
}

func (c *HabitAddCmd) form() *huh.Form {
	options := make([]huh.Option[string], 0, len(constants.Categories))
	for _, cat := range constants.Categories {
		options = append(options, huh.NewOption(string(cat), string(cat)))
	}
	if c.Category == "" {
		c.Category = string(constants.Categories[0])
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit title").
				Placeholder("e.g., Read 10 pages of a book").
				Value(&c.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&c.Category),
			huh.NewText().
				Title("Description").
				Value(&c.Description),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&c.ReminderTime).
				Validate(func(s string) error {
					if s != "" && !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("use HH:MM, e.g. 07:30")
					}
					return nil
				}),
			huh.NewInput().
				Title("Image URL").
				Value(&c.Image),
		),
	)
}

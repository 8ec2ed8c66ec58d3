package habits

import (
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/validation"
)

type SyncCmd struct{}

// Run refreshes the local cache from the service and audits what came back.
func (c *SyncCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if ctx.Offline {
		ctx.Println("Nothing to sync in offline mode.")
		return nil
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

	habits, err := client.ListByUser(reqCtx, session.Claims.Email)
	if err != nil {
		return cli.MapAPIError(err)
	}
	cached, err := ctx.RefreshUserCache(session.Claims.Email, habits)
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	settings.LastSyncAt = now.UTC().Format(time.RFC3339)
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	logger.Info("Cache synced", "habits", len(habits))
	ctx.Printf("Synced %d habit(s) for %s.\n", cached, session.Claims.Email)

	report := validation.New().AuditHabits(habits, now)
	if report.HasConflicts() {
		ctx.Println()
		ctx.Printf("%s", report.FormatReport())
	}
	return nil
}

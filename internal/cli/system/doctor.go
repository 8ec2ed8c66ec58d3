package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/auth"
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/validation"
)

type DoctorCmd struct {
	SkipService bool `name:"skip-service" help:"Do not contact the habit service."`
}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkipped
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, status checkStatus, detail error) {
		switch status {
		case statusOK:
			ctx.Printf("✓ %s: OK\n", name)
		case statusWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", detail)
		case statusFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", detail)
			hasError = true
		case statusSkipped:
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", name, detail)
		}
	}
	check := func(name string, err error) {
		if err != nil {
			report(name, statusFail, err)
			return
		}
		report(name, statusOK, nil)
	}
	warn := func(name string, err error) {
		if err != nil {
			report(name, statusWarn, err)
			return
		}
		report(name, statusOK, nil)
	}

	dbErr := checkDBReachable(ctx)
	check("Database reachable", dbErr)

	if dbErr == nil {
		current, latest, err := ctx.Store.SchemaVersion()
		if err != nil {
			check("Schema version", err)
			report("Migrations complete", statusSkipped, errors.New("schema version unknown"))
		} else {
			check("Schema version", checkSchemaVersion(current, latest))
			check("Migrations complete", checkMigrationsComplete(current, latest))
		}
	} else {
		unreachable := errors.New("database not reachable")
		report("Schema version", statusSkipped, unreachable)
		report("Migrations complete", statusSkipped, unreachable)
	}

	check("Clock/timezone", checkClockTimezone(ctx))

	if keyring.IsAvailable() {
		report("OS keyring", statusOK, nil)
	} else {
		report("OS keyring", statusWarn, errors.New("keyring unavailable; use HABITLINE_TOKEN to sign in"))
	}

	warn("Session", checkSession(ctx))

	switch {
	case cmd.SkipService:
		report("Habit service", statusSkipped, errors.New("--skip-service"))
	case ctx.Offline:
		report("Habit service", statusSkipped, errors.New("offline mode"))
	default:
		warn("Habit service", checkService(ctx))
	}

	if dbErr == nil {
		warn("Cached habit data", checkCache(ctx))
	} else {
		report("Cached habit data", statusSkipped, errors.New("database not reachable"))
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(current, latest int) error {
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(current, latest int) error {
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitline migrate')", current, latest)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Wallclock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Config(); err != nil {
		return err
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	session, err := auth.Current(ctx.Wallclock())
	if err != nil {
		return err
	}
	if session.Claims.ExpiresAt.IsZero() {
		return nil
	}
	if left := session.Claims.ExpiresAt.Sub(ctx.Wallclock()); left < 10*time.Minute {
		return fmt.Errorf("token expires in %s", left.Round(time.Second))
	}
	return nil
}

func checkService(ctx *cli.Context) error {
	client, err := ctx.Client("")
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if _, err := client.Featured(reqCtx); err != nil {
		return fmt.Errorf("%s: %w", client.BaseURL(), err)
	}
	return nil
}

func checkCache(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to read cached habits: %w", err)
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	result := validation.New().AuditHabits(habits, now)
	if result.HasConflicts() {
		return fmt.Errorf("%d issue(s) found; run 'habitline sync' to refresh the cache", len(result.Conflicts))
	}
	return nil
}

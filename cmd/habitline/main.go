package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/habits"
	"github.com/julianstephens/habitline/internal/cli/settings"
	"github.com/julianstephens/habitline/internal/cli/system"
	"github.com/julianstephens/habitline/internal/config"
	"github.com/julianstephens/habitline/internal/constants"
	habiterrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string        `help:"Cache database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or OS keyring instead." type:"string" default:"${default_config}"`
	APIURL   string        `name:"api-url" help:"Habit service base URL (overrides ${env_api_url} and settings)."`
	Timezone string        `help:"Timezone used to decide what 'today' is (overrides ${env_timezone} and settings)."`
	Timeout  time.Duration `help:"Timeout for each habit service request." default:"${default_timeout}"`
	Offline  bool          `help:"Only read the local cache; never contact the habit service."`
	Debug    bool          `help:"Log debug output to stderr."`

	Dashboard habits.DashboardCmd `cmd:"" help:"Show the weekly completion chart and totals." default:"1"`
	Habit     habits.HabitCmd     `cmd:"" help:"Manage and track your habits."`
	Browse    habits.BrowseCmd    `cmd:"" help:"Browse public habits."`
	Featured  habits.FeaturedCmd  `cmd:"" help:"Show featured habits."`
	Sync      habits.SyncCmd      `cmd:"" help:"Refresh the local cache from the habit service."`

	Auth     system.AuthCmd       `cmd:"" help:"Sign in and out."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Init     system.InitCmd       `cmd:"" help:"Initialize habitline storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func isPostgres(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// resolveStore picks the cache backend. An explicit --config wins; otherwise
// a connection string from the environment or keyring is used before the
// default SQLite path.
func resolveStore(configFlag string) (storage.Provider, string, error) {
	if configFlag == constants.DefaultConfigPath {
		connStr := os.Getenv(constants.EnvDBConn)
		if connStr == "" {
			if stored, err := keyring.GetConnectionString(); err == nil {
				connStr = stored
			}
		}
		if connStr != "" {
			if valid, err := postgres.ValidateConnString(connStr); !valid && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", fmt.Errorf("invalid connection string: %w", err)
			}
			return postgres.New(connStr), defaultLogDir(), nil
		}
	}

	if isPostgres(configFlag) {
		if valid, err := postgres.ValidateConnString(configFlag); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", habiterrors.WithHint(
					errors.New("PostgreSQL connection strings with embedded credentials are NOT allowed"),
					fmt.Sprintf("Use 'habitline keyring set', %s, or a .pgpass file instead.", constants.EnvDBConn),
				)
			}
			return nil, "", err
		}
		return postgres.New(configFlag), defaultLogDir(), nil
	}

	path := kong.ExpandPath(configFlag)
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

func skipLoad(ctx *kong.Context) bool {
	selected := ctx.Selected()
	return selected != nil && (selected.Name == "init" || selected.Name == "doctor")
}

func defaultLogDir() string {
	return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
}

func main() {
	if err := config.LoadEnv(); err != nil {
		habiterrors.Fatalf("failed to load environment: %v", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits, streaks and progress from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         constants.Version,
			"default_config":  constants.DefaultConfigPath,
			"default_timeout": constants.DefaultRequestTimeout.String(),
			"env_api_url":     constants.EnvAPIURL,
			"env_timezone":    constants.EnvTimezone,
		},
	)

	store, logDir, err := resolveStore(CLI.Config)
	if err != nil {
		habiterrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:   runCtx,
		Store: store,
		Overrides: config.Overrides{
			APIURL:   CLI.APIURL,
			Timezone: CLI.Timezone,
			Timeout:  CLI.Timeout,
		},
		Offline: CLI.Offline,
	}

	// init creates the storage itself and doctor reports load failures
	if !skipLoad(ctx) {
		if err := store.Load(); err != nil {
			if errors.Is(err, storage.ErrNotInitialized) {
				err = habiterrors.WithHint(err, fmt.Sprintf("Expected a database at %s.", store.GetConfigPath()))
			}
			habiterrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		habiterrors.Fatal(err)
	}
}

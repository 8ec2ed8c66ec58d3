package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/julianstephens/habitline/internal/api"
	"github.com/julianstephens/habitline/internal/auth"
	"github.com/julianstephens/habitline/internal/config"
	habiterrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// Source says where a set of habits was read from.
type Source string

const (
	SourceAPI   Source = "service"
	SourceCache Source = "local cache"
)

// Context carries the dependencies shared by every command.
type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	Overrides config.Overrides
	Offline   bool
	Out       io.Writer

	// Clock and HTTPClient are replaced in tests.
	Clock      func() time.Time
	HTTPClient *http.Client

	cfg *config.Config
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// Println writes a line of command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Config resolves the effective configuration once per invocation.
func (c *Context) Config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Debug("Using default settings", "error", err)
		settings = models.DefaultSettings()
	}

	cfg, err := config.Resolve(c.Overrides, settings)
	if err != nil {
		return config.Config{}, habiterrors.WithHint(err, "Check --timezone or the timezone setting.")
	}
	// Service dates without an offset belong to the user's day.
	models.SetZonelessLocation(cfg.Location)
	c.cfg = &cfg
	return cfg, nil
}

// Wallclock returns the current instant without applying the configured
// timezone.
func (c *Context) Wallclock() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() (time.Time, error) {
	cfg, err := c.Config()
	if err != nil {
		return time.Time{}, err
	}
	return cfg.In(c.Wallclock()), nil
}

// RequestContext bounds a single service call by the configured timeout.
func (c *Context) RequestContext() (context.Context, context.CancelFunc) {
	timeout := c.Overrides.Timeout
	if cfg, err := c.Config(); err == nil {
		timeout = cfg.Timeout
	}
	return context.WithTimeout(c.context(), timeout)
}

// Session returns the signed-in user or an error telling them to log in.
func (c *Context) Session() (auth.Session, error) {
	session, err := auth.Current(c.Wallclock())
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		return auth.Session{}, habiterrors.WithHint(err, "Run 'habitline auth login' first.")
	case errors.Is(err, auth.ErrTokenExpired):
		return auth.Session{}, habiterrors.WithHint(err, "Run 'habitline auth login' with a fresh ID token.")
	case err != nil:
		return auth.Session{}, err
	}
	return session, nil
}

// Client builds a service client. An empty token makes anonymous requests.
func (c *Context) Client(token string) (*api.Client, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	opts := []api.Option{api.WithHTTPClient(c.HTTPClient), api.WithTimeout(cfg.Timeout)}
	if token != "" {
		opts = append(opts, api.WithToken(token))
	}
	return api.New(cfg.APIURL, opts...)
}

// Unreachable reports whether err means the service could not be contacted
// at all, as opposed to it answering with an error.
func Unreachable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// MyHabits returns the signed-in user's habits. Fresh results are written to
// the cache; with --offline, or when the service is unreachable and offline
// fallback is enabled, the cache is read instead.
func (c *Context) MyHabits(session auth.Session) ([]models.Habit, Source, error) {
	email := session.Claims.Email
	if c.Offline {
		habits, err := c.Store.GetHabitsByUser(email)
		return habits, SourceCache, err
	}

	client, err := c.Client(session.Token)
	if err != nil {
		return nil, "", err
	}
	reqCtx, cancel := c.RequestContext()
	defer cancel()

	habits, err := client.ListByUser(reqCtx, email)
	if err != nil {
		cfg, cfgErr := c.Config()
		if cfgErr == nil && cfg.OfflineFallback && Unreachable(err) {
			logger.Warn("Habit service unreachable, using local cache", "error", err)
			cached, cacheErr := c.Store.GetHabitsByUser(email)
			if cacheErr != nil {
				return nil, "", errors.Join(err, cacheErr)
			}
			return cached, SourceCache, nil
		}
		return nil, "", MapAPIError(err)
	}

	if _, err := c.RefreshUserCache(email, habits); err != nil {
		logger.Warn("Failed to update local cache", "error", err)
	}
	return habits, SourceAPI, nil
}

// CacheHabits stores habits in the local cache. Failures are logged and
// otherwise ignored; the cache is never authoritative.
func (c *Context) CacheHabits(habits []models.Habit) {
	if err := c.Store.SaveHabits(storage.Cacheable(habits), c.Wallclock()); err != nil {
		logger.Warn("Failed to update local cache", "error", err)
	}
}

// RefreshUserCache makes habits the whole cached set for email, so habits
// deleted on the service disappear locally. It returns how many were stored.
func (c *Context) RefreshUserCache(email string, habits []models.Habit) (int, error) {
	cacheable := storage.Cacheable(habits)
	if err := c.Store.ReplaceUserHabits(email, cacheable, c.Wallclock()); err != nil {
		return 0, err
	}
	return len(cacheable), nil
}

// MapAPIError attaches a user-facing hint to service errors.
func MapAPIError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return habiterrors.WithHint(err, "Your session was rejected. Run 'habitline auth login' again.")
	case errors.Is(err, api.ErrForbidden):
		return habiterrors.WithHint(err, "The token email does not match the habit owner.")
	case Unreachable(err):
		return habiterrors.WithHint(err, "Use --offline to read the local cache.")
	}
	return err
}

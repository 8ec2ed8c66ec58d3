package settings

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	APIURL          *string `name:"set-api-url" help:"Base URL of the habit service."`
	Timezone        *string `name:"set-timezone" help:"IANA timezone used to decide what 'today' is, or 'Local'."`
	OfflineFallback *bool   `name:"offline-fallback" negatable:"" help:"Serve cached habits when the service is unreachable."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		lastSync := settings.LastSyncAt
		if lastSync == "" {
			lastSync = "never"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  API URL:          %s\n", settings.APIURL)
		ctx.Printf("  Timezone:         %s\n", settings.Timezone)
		ctx.Printf("  Offline Fallback: %v\n", settings.OfflineFallback)
		ctx.Printf("  Last Sync:        %s\n", lastSync)
		return nil
	}

	updated := false
	if c.APIURL != nil {
		u, err := url.Parse(strings.TrimSpace(*c.APIURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid API URL %q: expected http(s)://host", *c.APIURL)
		}
		settings.APIURL = strings.TrimRight(u.String(), "/")
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.OfflineFallback != nil {
		settings.OfflineFallback = *c.OfflineFallback
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	_ "time/tzdata"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func ptr[T any](v T) *T { return &v }

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	for _, want := range []string{"API URL:", "Timezone:         Local", "Offline Fallback: true", "Last Sync:        never"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSettingsCmd_UpdateMultiple(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &SettingsCmd{
		APIURL:          ptr("https://habits.example.com/"),
		Timezone:        ptr("America/New_York"),
		OfflineFallback: ptr(false),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	updated, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get updated settings: %v", err)
	}
	if updated.APIURL != "https://habits.example.com" {
		t.Errorf("expected trimmed API URL, got %q", updated.APIURL)
	}
	if updated.Timezone != "America/New_York" {
		t.Errorf("expected timezone America/New_York, got %q", updated.Timezone)
	}
	if updated.OfflineFallback {
		t.Error("expected offline fallback to be disabled")
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  *SettingsCmd
	}{
		{name: "timezone", cmd: &SettingsCmd{Timezone: ptr("Mars/Olympus_Mons")}},
		{name: "relative URL", cmd: &SettingsCmd{APIURL: ptr("/habits")}},
		{name: "ftp URL", cmd: &SettingsCmd{APIURL: ptr("ftp://habits.example.com")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Errorf("expected error for invalid %s", tt.name)
			}

			settings, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() failed: %v", err)
			}
			if settings.Timezone != "Local" {
				t.Errorf("invalid input should not be saved, timezone = %q", settings.Timezone)
			}
		})
	}
}

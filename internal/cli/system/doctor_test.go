package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/config"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

var testNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.EnvToken, "")
	t.Setenv(constants.EnvTimezone, "")

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Overrides: config.Overrides{Timezone: "UTC"},
		Out:       out,
		Clock:     func() time.Time { return testNow },
	}
	return ctx, store, out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)

	cmd := &DoctorCmd{SkipService: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out)
	}

	// Not being signed in is a warning, not a failure
	if !strings.Contains(out.String(), "⚠ Session: WARNING") {
		t.Errorf("expected session warning, got:\n%s", out)
	}
	if !strings.Contains(out.String(), "⊘ Habit service: SKIPPED") {
		t.Errorf("expected skipped service check, got:\n%s", out)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)

	db := store.GetDB()
	if db == nil {
		t.Fatal("database connection is nil")
	}

	// Set an impossible future schema version
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	cmd := &DoctorCmd{SkipService: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("expected schema failure, got:\n%s", out)
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	gokeyring.MockInit()
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db")),
		Overrides: config.Overrides{Timezone: "UTC"},
		Out:       out,
		Clock:     func() time.Time { return testNow },
	}

	if err := (&DoctorCmd{SkipService: true}).Run(ctx); err == nil {
		t.Error("doctor should fail without a database")
	}
	if !strings.Contains(out.String(), "⊘ Migrations complete: SKIPPED") {
		t.Errorf("expected skipped migration check, got:\n%s", out)
	}
}

func TestDoctorCmd_CacheIssuesAreWarnings(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)

	habit := models.Habit{
		ID:    "h1",
		Title: "Read",
		CompletionHistory: []models.CompletionEvent{
			{Date: time.Date(2025, 6, 25, 9, 0, 0, 0, time.UTC)},
		},
	}
	if err := store.SaveHabits([]models.Habit{habit}, testNow); err != nil {
		t.Fatalf("SaveHabits() failed: %v", err)
	}

	if err := (&DoctorCmd{SkipService: true}).Run(ctx); err != nil {
		t.Errorf("cache issues should not fail doctor: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Cached habit data: WARNING") {
		t.Errorf("expected cache warning, got:\n%s", out)
	}
}

func TestCheckMigrationsComplete(t *testing.T) {
	if err := checkMigrationsComplete(1, 2); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
	if err := checkMigrationsComplete(2, 2); err != nil {
		t.Errorf("checkMigrationsComplete(2, 2) = %v", err)
	}
	if err := checkSchemaVersion(3, 2); err == nil {
		t.Error("checkSchemaVersion should reject a newer database")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _, _ := setupTestDoctorDB(t)
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}

	ctx.Clock = func() time.Time { return time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("expected a 1999 clock to be rejected")
	}
}

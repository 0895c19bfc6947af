package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.DBPath != "habitd.db" || cfg.LogPath != "habitd.log" {
		t.Fatalf("unexpected path defaults: %+v", cfg)
	}
	if !cfg.SeedOnFirstRun || cfg.SchedulerBuffer != 64 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("HABITD_DB_PATH", "data/custom.db")
	t.Setenv("HABITD_TIMEZONE", "UTC")
	t.Setenv("HABITD_REMINDER_TIME", "07:30")
	t.Setenv("HABITD_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("HABITD_SEED_ON_FIRST_RUN", "off")
	t.Setenv("HABITD_SCHEDULER_BUFFER", "128")
	t.Setenv("HABITD_LISTEN_ADDR", ":9090")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "data/custom.db" || cfg.Timezone != "UTC" || cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected string overrides: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.SeedOnFirstRun {
		t.Fatalf("unexpected bool overrides: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 128 {
		t.Fatalf("unexpected buffer override: %+v", cfg)
	}
	hour, minute, enabled, err := cfg.ReminderClock()
	if err != nil || !enabled || hour != 7 || minute != 30 {
		t.Fatalf("unexpected reminder clock: %d:%d enabled=%v err=%v", hour, minute, enabled, err)
	}
}

func TestRuntimeConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HABITD_SCHEDULER_BUFFER", "lots")
	t.Setenv("HABITD_DESKTOP_NOTIFICATIONS", "maybe")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.SchedulerBuffer != 64 || cfg.DesktopNotifications {
		t.Fatalf("garbage env values should be ignored: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitd.yaml")
	body := "db_path: from-file.db\ntimezone: Europe/Berlin\nreminder_time: \"\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HABITD_DB_PATH", "from-env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Fatalf("env should win over file: %+v", cfg)
	}
	if cfg.Timezone != "Europe/Berlin" || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Fatalf("absent keys should keep defaults: %+v", cfg)
	}
	if _, _, enabled, _ := cfg.ReminderClock(); enabled {
		t.Fatal("empty reminder_time should disable reminders")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
	cfg = DefaultRuntimeConfig()
	cfg.ReminderTime = "8pm"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidReminderTime) {
		t.Fatalf("expected ErrInvalidReminderTime, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

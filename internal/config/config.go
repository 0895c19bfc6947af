package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const envPrefix = "HABITD_"

var (
	ErrInvalidTimezone     = errors.New("config: invalid timezone")
	ErrInvalidReminderTime = errors.New("config: reminder_time must be HH:MM")
)

type RuntimeConfig struct {
	DBPath               string `yaml:"db_path"`
	Timezone             string `yaml:"timezone"`
	ReminderTime         string `yaml:"reminder_time"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	LogPath              string `yaml:"log_path"`
	LogLevel             string `yaml:"log_level"`
	ListenAddr           string `yaml:"listen_addr"`
	ExportDir            string `yaml:"export_dir"`
	SeedOnFirstRun       bool   `yaml:"seed_on_first_run"`
	SchedulerBuffer      int    `yaml:"scheduler_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "habitd.db",
		Timezone:             "Local",
		ReminderTime:         "20:00",
		DesktopNotifications: false,
		LogPath:              "habitd.log",
		LogLevel:             "info",
		ListenAddr:           "127.0.0.1:8080",
		ExportDir:            ".",
		SeedOnFirstRun:       true,
		SchedulerBuffer:      64,
	}
}

// Load applies the optional YAML file and then HABITD_* environment
// overrides on top of the defaults. An empty path skips the file.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := LoadFile(DefaultRuntimeConfig(), path)
	if err != nil {
		return cfg, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML document at path onto base. Keys absent from the
// file keep their base value.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString(envPrefix + "DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString(envPrefix + "TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := os.LookupEnv(envPrefix + "REMINDER_TIME"); ok {
		cfg.ReminderTime = strings.TrimSpace(v)
	}
	if v, ok := getEnvBool(envPrefix + "DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString(envPrefix + "LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString(envPrefix + "LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := getEnvString(envPrefix + "EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := getEnvBool(envPrefix + "SEED_ON_FIRST_RUN"); ok {
		cfg.SeedOnFirstRun = v
	}
	if v, ok := getEnvInt(envPrefix + "SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, _, err := c.ReminderClock(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; "" and "Local" mean the system zone.
func (c RuntimeConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ReminderClock parses ReminderTime. enabled is false when it is empty.
func (c RuntimeConfig) ReminderClock() (hour, minute int, enabled bool, err error) {
	raw := strings.TrimSpace(c.ReminderTime)
	if raw == "" {
		return 0, 0, false, nil
	}
	t, parseErr := time.Parse("15:04", raw)
	if parseErr != nil {
		return 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidReminderTime, raw)
	}
	return t.Hour(), t.Minute(), true, nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/christopherklint97/worktime/internal/ledger"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	WorkMinutes   int    `toml:"work_minutes"`
	BreakMinutes  int    `toml:"break_minutes"`
	Notifications bool   `toml:"notifications"`
	DateFormat    string `toml:"date_format"` // Go reference layout
	TimeFormat    string `toml:"time_format"` // Go reference layout
	LockBreak     bool   `toml:"lock_break"`
	Filename      string `toml:"filename"`
}

func DefaultConfig() Config {
	filename := "work_hours.csv"
	if dir, err := ConfigDir(); err == nil {
		filename = filepath.Join(dir, filename)
	}
	return Config{
		WorkMinutes:   450,
		BreakMinutes:  30,
		Notifications: true,
		DateFormat:    "2006-01-02",
		TimeFormat:    "15:04:05",
		LockBreak:     false,
		Filename:      filename,
	}
}

// Settings returns the values the ledger engine works with.
func (c *Config) Settings() ledger.Settings {
	return ledger.Settings{
		WorkMinutes:  c.WorkMinutes,
		BreakMinutes: c.BreakMinutes,
		DateLayout:   c.DateFormat,
		TimeLayout:   c.TimeFormat,
		LockBreak:    c.LockBreak,
	}
}

// Defaults returns the values used to backfill legacy ledger rows.
func (c *Config) Defaults() ledger.Defaults {
	return ledger.Defaults{
		BreakMinutes: c.BreakMinutes,
		WorkMinutes:  c.WorkMinutes,
	}
}

func (c *Config) Validate() error {
	if c.WorkMinutes < 0 {
		return fmt.Errorf("work_minutes must not be negative")
	}
	if c.BreakMinutes < 0 {
		return fmt.Errorf("break_minutes must not be negative")
	}
	if c.DateFormat == "" || c.TimeFormat == "" {
		return fmt.Errorf("date_format and time_format must be set")
	}
	if !keepsDate(c.DateFormat) {
		return fmt.Errorf("date_format %q must be a Go layout with year, month and day", c.DateFormat)
	}
	if !keepsClock(c.TimeFormat) {
		return fmt.Errorf("time_format %q must be a Go layout with hour and minute", c.TimeFormat)
	}
	if c.Filename == "" {
		return fmt.Errorf("filename must be set")
	}
	return nil
}

// layoutProbe has distinct day, month, hour and minute values so a
// layout that drops any of them cannot parse back to the same fields.
var layoutProbe = time.Date(2031, time.November, 23, 17, 45, 0, 0, time.UTC)

func keepsDate(layout string) bool {
	t, err := time.Parse(layout, layoutProbe.Format(layout))
	if err != nil {
		return false
	}
	y, m, d := t.Date()
	py, pm, pd := layoutProbe.Date()
	return y == py && m == pm && d == pd
}

func keepsClock(layout string) bool {
	t, err := time.Parse(layout, layoutProbe.Format(layout))
	if err != nil {
		return false
	}
	return t.Hour() == layoutProbe.Hour() && t.Minute() == layoutProbe.Minute()
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "worktime"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path), nil
}

// LoadFrom reads the config at path. A missing file is created with the
// defaults; an unreadable or invalid one is ignored and the defaults are
// used for this run.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		_ = SaveTo(path, &cfg)
		applyEnvOverrides(&cfg)
		return &cfg
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil || cfg.Validate() != nil {
			cfg = DefaultConfig()
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKTIME_FILE"); v != "" {
		cfg.Filename = v
	}
}

func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

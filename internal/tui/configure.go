package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/christopherklint97/worktime/internal/config"
)

// configAnswers holds the form values as strings, the way huh inputs
// edit them.
type configAnswers struct {
	filename      string
	workMinutes   string
	breakMinutes  string
	notifications bool
	lockBreak     bool
}

func answersFrom(cfg config.Config) configAnswers {
	return configAnswers{
		filename:      cfg.Filename,
		workMinutes:   strconv.Itoa(cfg.WorkMinutes),
		breakMinutes:  strconv.Itoa(cfg.BreakMinutes),
		notifications: cfg.Notifications,
		lockBreak:     cfg.LockBreak,
	}
}

// apply copies the answers onto cfg. Empty answers keep the current
// value.
func (a configAnswers) apply(cfg config.Config) (config.Config, error) {
	if f := strings.TrimSpace(a.filename); f != "" {
		cfg.Filename = f
	}
	var err error
	if cfg.WorkMinutes, err = minutesOr(a.workMinutes, cfg.WorkMinutes); err != nil {
		return cfg, fmt.Errorf("work time: %w", err)
	}
	if cfg.BreakMinutes, err = minutesOr(a.breakMinutes, cfg.BreakMinutes); err != nil {
		return cfg, fmt.Errorf("break time: %w", err)
	}
	cfg.Notifications = a.notifications
	cfg.LockBreak = a.lockBreak
	return cfg, nil
}

func minutesOr(s string, current int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return current, nil
	}
	return parseMinutes(s)
}

func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a valid number of minutes")
	}
	if n < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return n, nil
}

func validateMinutes(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseMinutes(s)
	return err
}

func validateFilename(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(abs))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory %s does not exist", filepath.Dir(abs))
	}
	return nil
}

// Configure asks for every setting, starting from cfg, and returns the
// edited configuration. It does not save it.
func Configure(cfg config.Config) (config.Config, error) {
	a := answersFrom(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Worktime configuration").
				Description("Empty answers keep the current setting."),
			huh.NewInput().
				Title("Ledger file").
				Description("File to save the work hour log to").
				Value(&a.filename).
				Validate(validateFilename),
			huh.NewInput().
				Title("Daily work time (min)").
				Value(&a.workMinutes).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Daily break time (min)").
				Value(&a.breakMinutes).
				Validate(validateMinutes),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Do you want notifications?").
				Value(&a.notifications),
			huh.NewConfirm().
				Title("Is locking the screen considered break time?").
				Value(&a.lockBreak),
		),
	).WithProgramOptions(tea.WithAltScreen())

	if err := form.Run(); err != nil {
		return cfg, err
	}
	return a.apply(cfg)
}

package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/worktime/internal/config"
)

// Pass is one automatic run over the ledger.
type Pass func(ctx context.Context) error

// Scheduler repeats a Pass on minute-aligned ticks, replacing an
// external cron entry.
type Scheduler struct {
	pass     Pass
	interval time.Duration
	pidPath  string
	logger   *slog.Logger
}

func New(pass Pass, interval time.Duration, pidPath string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		pass:     pass,
		interval: interval,
		pidPath:  pidPath,
		logger:   logger,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer s.removePID()

	s.logger.Info("watch started", "interval", s.interval)
	s.runPass(ctx)

	for {
		nextTick := nextAlignedTick(time.Now(), s.interval)
		s.logger.Debug("next pass", "at", nextTick.Format("15:04:05"))

		select {
		case <-ctx.Done():
			s.logger.Info("watch stopped")
			return nil
		case <-time.After(time.Until(nextTick)):
		}

		s.runPass(ctx)
	}
}

// runPass logs failures instead of returning them so a single bad run
// does not stop the watch.
func (s *Scheduler) runPass(ctx context.Context) {
	if err := s.pass(ctx); err != nil {
		s.logger.Error("automatic pass failed", "error", err)
	}
}

// nextAlignedTick returns the next multiple of interval after now,
// counted from the start of the hour.
func nextAlignedTick(now time.Time, interval time.Duration) time.Time {
	mins := int(interval.Minutes())
	if mins <= 0 {
		mins = 1
	}

	currentMinute := now.Minute()
	nextMinute := ((currentMinute / mins) + 1) * mins

	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return next.Add(time.Duration(nextMinute) * time.Minute)
}

func DefaultPIDPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "worktime.pid"), nil
}

func (s *Scheduler) writePID() error {
	if err := os.MkdirAll(filepath.Dir(s.pidPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (s *Scheduler) removePID() {
	os.Remove(s.pidPath)
}

func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running watch found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}

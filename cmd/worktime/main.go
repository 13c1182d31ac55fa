package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/christopherklint97/worktime/internal/calendar"
	"github.com/christopherklint97/worktime/internal/config"
	"github.com/christopherklint97/worktime/internal/ledger"
	"github.com/christopherklint97/worktime/internal/lockstate"
	"github.com/christopherklint97/worktime/internal/notify"
	"github.com/christopherklint97/worktime/internal/scheduler"
	"github.com/christopherklint97/worktime/internal/store"
	"github.com/christopherklint97/worktime/internal/tracker"
	"github.com/christopherklint97/worktime/internal/tui"
	"github.com/christopherklint97/worktime/internal/when"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worktime [filename]",
	Short: "Work hour automator",
	Long: "worktime keeps a daily log of work start and end times, breaks and flex hours.\n" +
		"Run it periodically (or use 'worktime watch') and it tracks your day from the screen lock state;\n" +
		"use the flags to correct a day by hand.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

var statusCmd = &cobra.Command{
	Use:   "status [filename]",
	Short: "Show recent days and the flex total",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

var exportCmd = &cobra.Command{
	Use:   "export [filename]",
	Short: "Export the ledger as an iCalendar file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var watchCmd = &cobra.Command{
	Use:   "watch [filename]",
	Short: "Track work time every minute until stopped",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running watch",
	RunE:  runStop,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("date", "d", "", "Date for manual commands (default: today)")
	flags.BoolP("flex", "f", false, "Add flex day for given date")
	flags.StringP("start", "s", "", "Modify start time for given date (default: now)")
	flags.StringP("end", "e", "", "Modify end time for given date (default: now)")
	flags.Lookup("start").NoOptDefVal = "now"
	flags.Lookup("end").NoOptDefVal = "now"
	flags.Int("add-break", 0, "Add break time in minutes for given date")
	flags.Int("remove-break", 0, "Remove break time in minutes from given date")
	flags.Int("worktime", -1, "Set work time in minutes for given date")
	flags.Bool("recalculate", false, "Recalculate overtime of every day in the ledger")
	flags.Bool("config", false, "Configure the tool")
	flags.Bool("no-auto", false, "Skip automatic tracking from the lock state")
	flags.Bool("locked", false, "Treat the session as locked instead of asking the system")
	flags.Bool("unlocked", false, "Treat the session as unlocked instead of asking the system")
	rootCmd.MarkFlagsMutuallyExclusive("locked", "unlocked")

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	statusCmd.Flags().Int("days", 14, "Number of recent days to show")
	exportCmd.Flags().String("ics", "work_hours.ics", "Path of the iCalendar file to write")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stopCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func ledgerPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Filename
}

// openState opens the reminder database. Without it the engine falls
// back to its stateless reminder heuristic, so failures are only logged.
func openState(logger *slog.Logger) *store.DB {
	dir, err := config.ConfigDir()
	if err != nil {
		logger.Warn("no state directory", "error", err)
		return nil
	}
	db, err := store.Open(filepath.Join(dir, "worktime.db"))
	if err != nil {
		logger.Warn("opening state database", "error", err)
		return nil
	}
	if n, err := db.PruneState("reminder:", 30); err != nil {
		logger.Debug("pruning reminders", "error", err)
	} else if n > 0 {
		logger.Debug("pruned reminders", "count", n)
	}
	return db
}

func newEngine(cfg *config.Config, db *store.DB, logger *slog.Logger) *ledger.Engine {
	opts := []ledger.Option{
		ledger.WithNotifier(notify.New(cfg.Notifications, logger)),
		ledger.WithLogger(logger),
	}
	if db != nil {
		opts = append(opts, ledger.WithStateStore(db))
	}
	return ledger.NewEngine(cfg.Settings(), opts...)
}

func newDetector(cmd *cobra.Command) lockstate.Detector {
	if locked, _ := cmd.Flags().GetBool("locked"); locked {
		return lockstate.Static(true)
	}
	if unlocked, _ := cmd.Flags().GetBool("unlocked"); unlocked {
		return lockstate.Static(false)
	}
	return lockstate.NewLogind()
}

func parseOptions(cmd *cobra.Command, cfg *config.Config, now time.Time) (tracker.Options, error) {
	flags := cmd.Flags()
	var opts tracker.Options

	dateStr, _ := flags.GetString("date")
	date, err := when.Date(dateStr, cfg.DateFormat, now)
	if err != nil {
		return opts, err
	}
	opts.Date = date

	for _, name := range []string{"start", "end"} {
		if !flags.Changed(name) {
			continue
		}
		s, _ := flags.GetString(name)
		t, err := when.Time(s, cfg.TimeFormat, now)
		if err != nil {
			return opts, err
		}
		if name == "start" {
			opts.Start = &t
		} else {
			opts.End = &t
		}
	}

	opts.Flex, _ = flags.GetBool("flex")
	opts.AddBreak, _ = flags.GetInt("add-break")
	opts.RemoveBreak, _ = flags.GetInt("remove-break")
	opts.WorkTime, _ = flags.GetInt("worktime")
	opts.Recalculate, _ = flags.GetBool("recalculate")
	noAuto, _ := flags.GetBool("no-auto")
	opts.Automatic = !noAuto

	return opts, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if configure, _ := cmd.Flags().GetBool("config"); configure {
		return runConfigure(cfg)
	}

	opts, err := parseOptions(cmd, cfg, time.Now())
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	db := openState(logger)
	if db != nil {
		defer db.Close()
	}

	t := tracker.New(newEngine(cfg, db, logger), cfg.Defaults(), newDetector(cmd), os.Stdout, logger)
	_, err = t.Run(cmd.Context(), ledgerPath(cfg, args), opts)
	return err
}

func runConfigure(cfg *config.Config) error {
	updated, err := tui.Configure(*cfg)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("Configuration cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("running configuration: %w", err)
	}

	if err := config.Save(&updated); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	path, _ := config.ConfigPath()
	fmt.Printf("Configuration saved to %s!\n", path)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")

	logger := newLogger(cmd)
	t := tracker.New(newEngine(cfg, nil, logger), cfg.Defaults(), nil, io.Discard, logger)
	records, err := t.Load(ledgerPath(cfg, args))
	if err != nil {
		return err
	}

	l := ledger.New(records)
	l.SortByDate()
	fmt.Println(tui.RenderStatus(l.Records(), time.Now().Format(cfg.DateFormat), days))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("ics")

	logger := newLogger(cmd)
	t := tracker.New(newEngine(cfg, nil, logger), cfg.Defaults(), nil, io.Discard, logger)
	records, err := t.Load(ledgerPath(cfg, args))
	if err != nil {
		return err
	}

	events, err := calendar.Events(records, cfg.DateFormat, cfg.TimeFormat)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := calendar.Encode(f, events, time.Now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Printf("Exported %d days to %s\n", len(events), out)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pidPath, err := scheduler.DefaultPIDPath()
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	db := openState(logger)
	if db != nil {
		defer db.Close()
	}

	path := ledgerPath(cfg, args)
	t := tracker.New(newEngine(cfg, db, logger), cfg.Defaults(), lockstate.NewLogind(), io.Discard, logger)
	pass := func(ctx context.Context) error {
		now := time.Now()
		_, err := t.Run(ctx, path, tracker.Options{Date: now, WorkTime: -1, Automatic: true})
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	return scheduler.New(pass, time.Minute, pidPath, logger).Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	pidPath, err := scheduler.DefaultPIDPath()
	if err != nil {
		return err
	}
	pid, err := scheduler.ReadPID(pidPath)
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to worktime watch (PID %d)\n", pid)
	return nil
}

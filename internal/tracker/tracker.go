// Package tracker runs one read-modify-write pass over the ledger file:
// manual edits first, then the automatic lock handling, then a write
// only if anything changed.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/christopherklint97/worktime/internal/ledger"
	"github.com/christopherklint97/worktime/internal/ledgerfile"
	"github.com/christopherklint97/worktime/internal/lockstate"
)

// Options select the edits of one run. Zero values mean "not requested"
// except WorkTime, where a negative value does.
type Options struct {
	Date        time.Time
	Flex        bool
	Start       *time.Time
	End         *time.Time
	AddBreak    int
	RemoveBreak int
	WorkTime    int
	Recalculate bool
	Automatic   bool
}

type Tracker struct {
	engine   *ledger.Engine
	defaults ledger.Defaults
	detector lockstate.Detector
	out      io.Writer
	logger   *slog.Logger
}

func New(engine *ledger.Engine, defaults ledger.Defaults, detector lockstate.Detector, out io.Writer, logger *slog.Logger) *Tracker {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		engine:   engine,
		defaults: defaults,
		detector: detector,
		out:      out,
		logger:   logger,
	}
}

// Load reads and migrates the records of the ledger at path.
func (t *Tracker) Load(path string) ([]ledger.DayRecord, error) {
	rows, err := ledgerfile.Read(path)
	if err != nil {
		return nil, err
	}
	records, err := ledger.Migrate(ledger.Strip(rows), t.defaults)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Run applies opts to the ledger at path and reports whether the file
// was rewritten. Nothing is written when any step fails.
func (t *Tracker) Run(ctx context.Context, path string, opts Options) (bool, error) {
	records, err := t.Load(path)
	if err != nil {
		return false, err
	}
	l := ledger.New(records)

	if err := t.applyManual(l, opts); err != nil {
		return false, err
	}

	if opts.Automatic {
		if err := t.applyAutomatic(ctx, l); err != nil {
			return false, err
		}
	}

	t.engine.CloseAllButToday(l)
	l.SortByDate()

	after := l.Records()
	if !ledger.HasChanged(records, after) {
		t.logger.Debug("ledger unchanged", "path", path)
		return false, nil
	}

	if err := ledgerfile.Write(path, ledger.Assemble(after)); err != nil {
		return false, err
	}
	t.logger.Debug("ledger written", "path", path, "days", len(after))
	return true, nil
}

func (t *Tracker) applyManual(l *ledger.Ledger, opts Options) error {
	date := opts.Date.Format(t.engine.Settings().DateLayout)
	timeLayout := t.engine.Settings().TimeLayout

	if opts.Recalculate {
		fmt.Fprintf(t.out, "Recalculating %d days\n", l.Len())
		if err := t.engine.Recalculate(l); err != nil {
			return fmt.Errorf("recalculating: %w", err)
		}
	}

	if opts.Flex {
		r := t.engine.Flex(l, opts.Date)
		fmt.Fprintf(t.out, "Flexing %s with %d minutes\n", date, r.Overtime)
	}

	if opts.Start != nil {
		fmt.Fprintf(t.out, "Modifying start time of %s to %s\n", date, opts.Start.Format(timeLayout))
		if _, err := t.engine.SetStart(l, opts.Date, *opts.Start); err != nil {
			return fmt.Errorf("setting start time: %w", err)
		}
	}

	if opts.End != nil {
		fmt.Fprintf(t.out, "Modifying end time of %s to %s\n", date, opts.End.Format(timeLayout))
		if _, err := t.engine.SetEnd(l, opts.Date, *opts.End); err != nil {
			return fmt.Errorf("setting end time: %w", err)
		}
	}

	if opts.AddBreak > 0 {
		fmt.Fprintf(t.out, "Adding %d minute break to %s\n", opts.AddBreak, date)
		r, err := t.engine.AdjustBreak(l, opts.Date, opts.AddBreak)
		if err != nil {
			return fmt.Errorf("adding break: %w", err)
		}
		fmt.Fprintf(t.out, "Total breaks %s is %d minutes\n", date, r.Break)
	}

	if opts.RemoveBreak > 0 {
		fmt.Fprintf(t.out, "Removing %d minutes from break time of %s\n", opts.RemoveBreak, date)
		r, err := t.engine.AdjustBreak(l, opts.Date, -opts.RemoveBreak)
		if err != nil {
			return fmt.Errorf("removing break: %w", err)
		}
		fmt.Fprintf(t.out, "Total breaks %s is %d minutes\n", date, r.Break)
	}

	if opts.WorkTime >= 0 {
		fmt.Fprintf(t.out, "Setting work time to %d minutes for %s\n", opts.WorkTime, date)
		if _, err := t.engine.SetPlannedWork(l, opts.Date, opts.WorkTime); err != nil {
			return fmt.Errorf("setting work time: %w", err)
		}
	}

	return nil
}

// applyAutomatic skips the lock handling when the lock state cannot be
// read, so manual edits from the same run are still saved.
func (t *Tracker) applyAutomatic(ctx context.Context, l *ledger.Ledger) error {
	if t.detector == nil {
		return nil
	}
	locked, err := t.detector.Locked(ctx)
	if err != nil {
		t.logger.Warn("lock state unavailable, skipping automatic tracking", "error", err)
		return nil
	}
	t.logger.Debug("lock state", "locked", locked)
	if err := t.engine.HandleAutomatic(l, locked); err != nil {
		return fmt.Errorf("automatic tracking: %w", err)
	}
	return nil
}

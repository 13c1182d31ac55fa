package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

const notifyTitle = "Work time"

// Settings are the configuration values the engine needs. They are
// passed in once per run instead of being read from global state.
type Settings struct {
	WorkMinutes  int
	BreakMinutes int
	DateLayout   string
	TimeLayout   string
	LockBreak    bool
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	Notify(title, body, subtitle string)
}

// StateStore persists small key/value pairs between runs. It is used to
// remember which hourly reminder was last sent.
type StateStore interface {
	GetState(key string) (string, error)
	SetState(key, value string) error
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithStateStore(s StateStore) Option {
	return func(e *Engine) { e.state = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine applies the day state machine, manual edits and ledger-wide
// maintenance to a Ledger.
type Engine struct {
	cfg      Settings
	now      func() time.Time
	notifier Notifier
	state    StateStore
	logger   *slog.Logger
}

func NewEngine(cfg Settings, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

func (e *Engine) Settings() Settings {
	return e.cfg
}

// Today returns the current date formatted with the date layout.
func (e *Engine) Today() string {
	return e.now().Format(e.cfg.DateLayout)
}

func (e *Engine) currentTime() string {
	return e.now().Format(e.cfg.TimeLayout)
}

func (e *Engine) notify(body, subtitle string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(notifyTitle, body, subtitle)
}

func (e *Engine) recompute(r *DayRecord) error {
	ot, err := Overtime(*r, e.cfg.DateLayout, e.cfg.TimeLayout)
	if err != nil {
		return err
	}
	r.Overtime = ot
	return nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// start creates today's record. The caller guarantees none exists.
func (e *Engine) start(l *Ledger) {
	now := e.now()
	clock := now.Format(e.cfg.TimeLayout)

	breaks, work := e.cfg.BreakMinutes, e.cfg.WorkMinutes
	if isWeekend(now) {
		breaks, work = 0, 0
	}

	l.Upsert(DayRecord{
		Date:     now.Format(e.cfg.DateLayout),
		Start:    clock,
		End:      clock,
		Overtime: 0,
		Type:     EntryAutomatic,
		Break:    breaks,
		Work:     work,
		Status:   StatusOngoing,
	})
	e.logger.Debug("work day started", "date", now.Format(e.cfg.DateLayout), "time", clock)
	e.notify("Good morning! Work time started at "+clock, "")
}

// end closes an automatic record that is still open.
func (e *Engine) end(r *DayRecord) error {
	if r.Status == StatusEnded || r.Type != EntryAutomatic {
		return nil
	}
	r.End = e.currentTime()
	if err := e.recompute(r); err != nil {
		return err
	}
	r.Status = StatusEnded
	e.logger.Debug("work day paused", "date", r.Date, "end", r.End, "overtime", r.Overtime)
	return nil
}

// resume extends today's record up to now. When the record was ended by
// a lock, the gap is either booked as break or reported to the user.
func (e *Engine) resume(r *DayRecord) error {
	previousEnd := r.End
	r.End = e.currentTime()
	if err := e.recompute(r); err != nil {
		return err
	}

	if r.Status != StatusOngoing {
		if e.cfg.LockBreak {
			if err := e.lockBreak(r, previousEnd); err != nil {
				return err
			}
		} else {
			e.notifyRemaining(r)
		}
	}
	r.Status = StatusOngoing
	return nil
}

// lockBreak books the time between since and now as break time.
func (e *Engine) lockBreak(r *DayRecord, since string) error {
	from, err := parseStamp(r.Date, since, e.cfg.DateLayout, e.cfg.TimeLayout)
	if err != nil {
		return fmt.Errorf("parsing lock time of %s: %w", r.Date, err)
	}
	now, err := parseStamp(r.Date, e.currentTime(), e.cfg.DateLayout, e.cfg.TimeLayout)
	if err != nil {
		return fmt.Errorf("parsing current time: %w", err)
	}

	minutes := int(floorDiv(int64(now.Sub(from)/time.Second), 60))
	r.Break += minutes
	if err := e.recompute(r); err != nil {
		return err
	}

	e.logger.Debug("lock break added", "date", r.Date, "minutes", minutes, "break", r.Break)
	e.notify(fmt.Sprintf("Added automatic break of %d minutes", minutes), remainingText(r.Overtime, "You are done today!"))
	return nil
}

func (e *Engine) notifyRemaining(r *DayRecord) {
	e.notify(remainingText(r.Overtime, "You are done for today!"), "")
}

func remainingText(overtime int, done string) string {
	if overtime > 0 {
		return fmt.Sprintf("%s Over time for today is %.2fh", done, float64(overtime)/60)
	}
	return fmt.Sprintf("You still have %.2fh to work today", float64(-overtime)/60)
}

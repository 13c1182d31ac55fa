package ledger

import (
	"strconv"
	"time"
)

// HandleAutomatic applies at most one transition to today's record
// based on whether the user session is locked.
//
// Manual and flex records are frozen: once the user has edited a day by
// hand, lock and unlock events no longer move its times.
func (e *Engine) HandleAutomatic(l *Ledger, locked bool) error {
	today, exists := l.Get(e.Today())
	if exists && (IsManuallyChanged(today) || today.Type == EntryFlex) {
		e.logger.Debug("skipping automatic handling", "date", today.Date, "type", today.Type)
		return nil
	}

	if locked {
		if !exists {
			return nil
		}
		return e.end(today)
	}

	if !exists {
		e.start(l)
		return nil
	}

	e.remindHourly(today)
	return e.resume(today)
}

func reminderKey(date string) string {
	return "reminder:" + date
}

// remindHourly tells the user how much work is left once per hour since
// the day started. With a state store the last reminded hour is
// persisted; without one, the reminder fires whenever the current minute
// matches the start minute.
func (e *Engine) remindHourly(r *DayRecord) {
	if r.Status != StatusOngoing {
		return
	}
	start, err := parseStamp(r.Date, r.Start, e.cfg.DateLayout, e.cfg.TimeLayout)
	if err != nil {
		e.logger.Warn("cannot parse start time for reminder", "date", r.Date, "error", err)
		return
	}
	now := e.now()

	if e.state == nil {
		if start.Minute() == now.Minute() {
			e.notifyRemaining(r)
		}
		return
	}

	hours := int(now.Sub(start) / time.Hour)
	if hours < 1 {
		return
	}

	key := reminderKey(r.Date)
	last, err := e.state.GetState(key)
	if err != nil {
		e.logger.Warn("reading reminder state", "error", err)
		return
	}
	if n, err := strconv.Atoi(last); err == nil && hours <= n {
		return
	}
	if err := e.state.SetState(key, strconv.Itoa(hours)); err != nil {
		e.logger.Warn("saving reminder state", "error", err)
		return
	}
	e.notifyRemaining(r)
}

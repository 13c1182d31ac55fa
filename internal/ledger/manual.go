package ledger

import "time"

// stub returns a manual record for day with both times set to clock and
// the configured break and work minutes.
func (e *Engine) stub(date, clock string) DayRecord {
	return DayRecord{
		Date:   date,
		Start:  clock,
		End:    clock,
		Type:   EntryManual,
		Break:  e.cfg.BreakMinutes,
		Work:   e.cfg.WorkMinutes,
		Status: StatusEnded,
	}
}

// edit applies fn to the record for date, creating it from create when
// absent, and recomputes its overtime.
func (e *Engine) edit(l *Ledger, date string, create func() DayRecord, fn func(*DayRecord)) (DayRecord, error) {
	r, ok := l.Get(date)
	if ok {
		fn(r)
	} else {
		l.Upsert(create())
		r, _ = l.Get(date)
	}
	if err := e.recompute(r); err != nil {
		return DayRecord{}, err
	}
	return *r, nil
}

// Flex books day as a flex day: a full planned day of negative overtime.
func (e *Engine) Flex(l *Ledger, day time.Time) DayRecord {
	date := day.Format(e.cfg.DateLayout)
	clock := e.currentTime()
	minutes := -e.cfg.WorkMinutes

	if r, ok := l.Get(date); ok {
		r.Start = clock
		r.End = clock
		r.Overtime = minutes
		r.Type = EntryFlex
		return *r
	}

	r := e.stub(date, clock)
	r.Overtime = minutes
	r.Type = EntryFlex
	l.Upsert(r)
	return r
}

func (e *Engine) SetStart(l *Ledger, day, at time.Time) (DayRecord, error) {
	date := day.Format(e.cfg.DateLayout)
	clock := at.Format(e.cfg.TimeLayout)
	return e.edit(l, date,
		func() DayRecord { return e.stub(date, clock) },
		func(r *DayRecord) { r.Start = clock },
	)
}

// SetEnd also marks the day as manual so automatic handling stops
// moving the end time.
func (e *Engine) SetEnd(l *Ledger, day, at time.Time) (DayRecord, error) {
	date := day.Format(e.cfg.DateLayout)
	clock := at.Format(e.cfg.TimeLayout)
	return e.edit(l, date,
		func() DayRecord { return e.stub(date, clock) },
		func(r *DayRecord) {
			r.End = clock
			r.Type = EntryManual
		},
	)
}

// AdjustBreak adds delta minutes (negative to remove) to the break time.
func (e *Engine) AdjustBreak(l *Ledger, day time.Time, delta int) (DayRecord, error) {
	date := day.Format(e.cfg.DateLayout)
	return e.edit(l, date,
		func() DayRecord {
			r := e.stub(date, e.currentTime())
			r.Break += delta
			return r
		},
		func(r *DayRecord) { r.Break += delta },
	)
}

func (e *Engine) SetPlannedWork(l *Ledger, day time.Time, minutes int) (DayRecord, error) {
	date := day.Format(e.cfg.DateLayout)
	return e.edit(l, date,
		func() DayRecord {
			r := e.stub(date, e.currentTime())
			r.Work = minutes
			return r
		},
		func(r *DayRecord) { r.Work = minutes },
	)
}

package ledger

import "sort"

// Ledger holds the day records of one ledger file, keyed by date.
// It is not safe for concurrent use.
type Ledger struct {
	records []DayRecord
}

func New(records []DayRecord) *Ledger {
	l := &Ledger{records: make([]DayRecord, len(records))}
	copy(l.records, records)
	return l
}

// Index returns the position of the record for date, or -1.
func (l *Ledger) Index(date string) int {
	for i := range l.records {
		if l.records[i].Date == date {
			return i
		}
	}
	return -1
}

// Get returns a pointer into the ledger so callers can mutate the
// record in place. The pointer is invalidated by Upsert and SortByDate.
func (l *Ledger) Get(date string) (*DayRecord, bool) {
	i := l.Index(date)
	if i < 0 {
		return nil, false
	}
	return &l.records[i], true
}

// Upsert replaces the record with the same date or appends r.
func (l *Ledger) Upsert(r DayRecord) {
	if i := l.Index(r.Date); i >= 0 {
		l.records[i] = r
		return
	}
	l.records = append(l.records, r)
}

func (l *Ledger) Records() []DayRecord {
	out := make([]DayRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// SortByDate orders records by their formatted date. This is only
// chronological for layouts that sort lexicographically, like ISO dates.
func (l *Ledger) SortByDate() {
	sort.SliceStable(l.records, func(i, j int) bool {
		return l.records[i].Date < l.records[j].Date
	})
}

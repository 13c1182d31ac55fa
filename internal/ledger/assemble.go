package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	headerLabel = "Date"
	footerLabel = "Total"

	fieldCount = 8
)

// Header is the first row of a ledger file.
var Header = []string{"Date", "Start", "End", "Overtime", "Type", "Break time", "Work time", "Status"}

// Defaults fill in the columns missing from rows written by older
// versions of the ledger format.
type Defaults struct {
	BreakMinutes int
	WorkMinutes  int
}

// Strip removes the header and footer rows, if present.
func Strip(rows [][]string) [][]string {
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == headerLabel {
		rows = rows[1:]
	}
	if n := len(rows); n > 0 && len(rows[n-1]) > 0 && rows[n-1][0] == footerLabel {
		rows = rows[:n-1]
	}
	return rows
}

// Migrate converts raw rows into records, backfilling the trailing
// columns of short legacy rows. It runs once, right after loading.
func Migrate(rows [][]string, d Defaults) ([]DayRecord, error) {
	records := make([]DayRecord, 0, len(rows))
	for i, row := range rows {
		r, err := parseRow(row, d)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseRow(row []string, d Defaults) (DayRecord, error) {
	if len(row) < 4 {
		return DayRecord{}, fmt.Errorf("expected at least 4 fields, got %d", len(row))
	}
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	r := DayRecord{
		Date:   field(0),
		Start:  field(1),
		End:    field(2),
		Type:   EntryType(field(4)),
		Status: Status(field(7)),
		Break:  d.BreakMinutes,
		Work:   d.WorkMinutes,
	}
	if r.Type == "" {
		r.Type = EntryAutomatic
	}
	if r.Status == "" {
		r.Status = StatusEnded
	}

	var err error
	if r.Overtime, err = atoi(field(3), 0); err != nil {
		return DayRecord{}, fmt.Errorf("parsing overtime of %s: %w", r.Date, err)
	}
	if r.Break, err = atoi(field(5), d.BreakMinutes); err != nil {
		return DayRecord{}, fmt.Errorf("parsing break time of %s: %w", r.Date, err)
	}
	if r.Work, err = atoi(field(6), d.WorkMinutes); err != nil {
		return DayRecord{}, fmt.Errorf("parsing work time of %s: %w", r.Date, err)
	}
	return r, nil
}

func atoi(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

// Row encodes r in on-disk column order. Overtime is a plain integer, so
// a freshly started day is written as "0"; files that carry "00" for it
// still load to the same value.
func Row(r DayRecord) []string {
	return []string{
		r.Date,
		r.Start,
		r.End,
		strconv.Itoa(r.Overtime),
		string(r.Type),
		strconv.Itoa(r.Break),
		strconv.Itoa(r.Work),
		string(r.Status),
	}
}

// Total sums the overtime of all records.
func Total(records []DayRecord) (minutes int, hours float64) {
	for _, r := range records {
		minutes += r.Overtime
	}
	return minutes, float64(minutes) / 60
}

// Footer is the summary row appended after the records.
func Footer(records []DayRecord) []string {
	minutes, hours := Total(records)
	return []string{footerLabel, "", "", fmt.Sprintf("%dmin", minutes), fmt.Sprintf("%.2fh", hours)}
}

// Assemble sorts the records by date and frames them with the header
// and footer rows, ready to be written.
func Assemble(records []DayRecord) [][]string {
	sorted := make([]DayRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	rows := make([][]string, 0, len(sorted)+2)
	rows = append(rows, append([]string(nil), Header...))
	for _, r := range sorted {
		rows = append(rows, Row(r))
	}
	return append(rows, Footer(sorted))
}

// HasChanged reports whether the two record lists differ in length,
// order or any field. The ledger is only written back when it does.
func HasChanged(before, after []DayRecord) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}

// Recalculate recomputes the overtime of every record except flex days,
// whose overtime is a fixed credit of minus the planned work. Recomputing
// them from their equal start and end would also charge the break.
func (e *Engine) Recalculate(l *Ledger) error {
	for i := range l.records {
		r := &l.records[i]
		if r.Type == EntryFlex {
			continue
		}
		if err := e.recompute(r); err != nil {
			return err
		}
		e.logger.Debug("recalculated", "date", r.Date, "overtime", r.Overtime)
	}
	return nil
}

// CloseAllButToday ends every record not dated today, so a crash can
// never leave a stale day ongoing.
func (e *Engine) CloseAllButToday(l *Ledger) {
	today := e.Today()
	for i := range l.records {
		if l.records[i].Date != today {
			l.records[i].Status = StatusEnded
		}
	}
}

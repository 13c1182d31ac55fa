package ledger

import (
	"fmt"
	"time"
)

// Overtime computes the flex minutes for r:
// (end - start) - planned work - break, floored to whole minutes.
func Overtime(r DayRecord, dateLayout, timeLayout string) (int, error) {
	start, err := parseStamp(r.Date, r.Start, dateLayout, timeLayout)
	if err != nil {
		return 0, fmt.Errorf("parsing start of %s: %w", r.Date, err)
	}
	end, err := parseStamp(r.Date, r.End, dateLayout, timeLayout)
	if err != nil {
		return 0, fmt.Errorf("parsing end of %s: %w", r.Date, err)
	}

	elapsed := int64(end.Sub(start) / time.Second)
	seconds := elapsed - int64(r.Work)*60 - int64(r.Break)*60
	return int(floorDiv(seconds, 60)), nil
}

func parseStamp(date, clock, dateLayout, timeLayout string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
}

// floorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

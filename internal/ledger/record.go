package ledger

// EntryType records where a day's values came from. Only Automatic
// entries are touched by the lock/unlock handling.
type EntryType string

const (
	EntryAutomatic EntryType = "A"
	EntryManual    EntryType = "M"
	EntryFlex      EntryType = "F"
)

func (t EntryType) String() string {
	switch t {
	case EntryAutomatic:
		return "automatic"
	case EntryManual:
		return "manual"
	case EntryFlex:
		return "flex"
	}
	return string(t)
}

type Status string

const (
	StatusOngoing Status = "Ongoing"
	StatusEnded   Status = "Ended"
)

// DayRecord is one row of the ledger. Start and End are wall-clock
// times formatted with the configured time layout; Date uses the
// configured date layout and is the record's key.
type DayRecord struct {
	Date     string
	Start    string
	End      string
	Overtime int // minutes, negative when behind plan
	Type     EntryType
	Break    int // minutes
	Work     int // planned minutes
	Status   Status
}

// IsManuallyChanged reports whether automatic handling must leave the
// record alone.
func IsManuallyChanged(r *DayRecord) bool {
	return r != nil && r.Type == EntryManual
}

package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/christopherklint97/worktime/internal/ledger"
	ical "github.com/emersion/go-ical"
)

const productID = "-//worktime//work hour ledger//EN"

// Event is one ledger day as it appears in the calendar.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}

// Events converts records into calendar events. Flex days become
// all-day events; days without elapsed time are skipped.
func Events(records []ledger.DayRecord, dateLayout, timeLayout string) ([]Event, error) {
	var events []Event
	for _, r := range records {
		uid := r.Date + "@worktime"
		desc := fmt.Sprintf("Break %d min, planned %d min, overtime %+d min", r.Break, r.Work, r.Overtime)

		if r.Type == ledger.EntryFlex {
			day, err := time.ParseInLocation(dateLayout, r.Date, time.Local)
			if err != nil {
				return nil, fmt.Errorf("parsing date %s: %w", r.Date, err)
			}
			events = append(events, Event{
				UID:         uid,
				Summary:     "Flex day",
				Description: desc,
				StartTime:   day,
				EndTime:     day.AddDate(0, 0, 1),
				AllDay:      true,
			})
			continue
		}

		start, err := time.ParseInLocation(dateLayout+" "+timeLayout, r.Date+" "+r.Start, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing start of %s: %w", r.Date, err)
		}
		end, err := time.ParseInLocation(dateLayout+" "+timeLayout, r.Date+" "+r.End, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing end of %s: %w", r.Date, err)
		}
		if !end.After(start) {
			continue
		}

		events = append(events, Event{
			UID:         uid,
			Summary:     fmt.Sprintf("Work (%+d min)", r.Overtime),
			Description: desc,
			StartTime:   start,
			EndTime:     end,
		})
	}
	return events, nil
}

// Encode writes events as a single VCALENDAR.
func Encode(w io.Writer, events []Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range events {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, e.UID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetText(ical.PropSummary, e.Summary)
		event.Props.SetText(ical.PropDescription, e.Description)
		if e.AllDay {
			event.Props.SetDate(ical.PropDateTimeStart, e.StartTime)
			event.Props.SetDate(ical.PropDateTimeEnd, e.EndTime)
		} else {
			event.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
			event.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

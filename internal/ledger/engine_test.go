package ledger

import (
	"testing"
	"time"
)

func TestHandleAutomatic_StartsWorkDay(t *testing.T) {
	e, _, n := newTestEngine(t, testSettings, at("2024-01-02", "08:05:10"))
	l := New(nil)

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatalf("HandleAutomatic: %v", err)
	}

	want := DayRecord{
		Date:     "2024-01-02",
		Start:    "08:05:10",
		End:      "08:05:10",
		Overtime: 0,
		Type:     EntryAutomatic,
		Break:    30,
		Work:     450,
		Status:   StatusOngoing,
	}
	recs := l.Records()
	if len(recs) != 1 || recs[0] != want {
		t.Fatalf("got %+v, want %+v", recs, want)
	}
	if len(n.sent) != 1 || n.sent[0].body != "Good morning! Work time started at 08:05:10" {
		t.Errorf("unexpected notifications: %+v", n.sent)
	}
}

func TestHandleAutomatic_WeekendHasNoPlan(t *testing.T) {
	e, _, _ := newTestEngine(t, testSettings, at("2024-01-06", "10:00:00"))
	l := New(nil)

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	r, ok := l.Get("2024-01-06")
	if !ok {
		t.Fatal("expected a record for Saturday")
	}
	if r.Break != 0 || r.Work != 0 {
		t.Errorf("expected zero break and work on weekends, got %d/%d", r.Break, r.Work)
	}
}

func TestHandleAutomatic_LockedWithoutRecordDoesNothing(t *testing.T) {
	e, _, n := newTestEngine(t, testSettings, at("2024-01-02", "08:00:00"))
	l := New(nil)

	if err := e.HandleAutomatic(l, true); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 0 || len(n.sent) != 0 {
		t.Errorf("expected no-op, got %d records and %d notifications", l.Len(), len(n.sent))
	}
}

func TestHandleAutomatic_LockEndsDay(t *testing.T) {
	e, _, _ := newTestEngine(t, testSettings, at("2024-01-02", "17:00:00"))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:00:00", End: "09:00:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusOngoing,
	}})

	if err := e.HandleAutomatic(l, true); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Get("2024-01-02")
	if r.End != "17:00:00" {
		t.Errorf("End = %q, want 17:00:00", r.End)
	}
	if r.Overtime != 0 {
		t.Errorf("Overtime = %d, want 0", r.Overtime)
	}
	if r.Status != StatusEnded {
		t.Errorf("Status = %q, want Ended", r.Status)
	}
}

func TestHandleAutomatic_LockKeepsEndedDay(t *testing.T) {
	e, _, _ := newTestEngine(t, testSettings, at("2024-01-02", "18:00:00"))
	original := DayRecord{
		Date: "2024-01-02", Start: "09:00:00", End: "17:00:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusEnded,
	}
	l := New([]DayRecord{original})

	if err := e.HandleAutomatic(l, true); err != nil {
		t.Fatal(err)
	}
	if HasChanged([]DayRecord{original}, l.Records()) {
		t.Errorf("ended day was modified: %+v", l.Records())
	}
}

func TestHandleAutomatic_ResumeNotifiesRemaining(t *testing.T) {
	e, _, n := newTestEngine(t, testSettings, at("2024-01-02", "12:30:00"))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:00:00", End: "12:00:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusEnded,
	}})

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Get("2024-01-02")
	if r.End != "12:30:00" || r.Break != 30 || r.Overtime != -270 || r.Status != StatusOngoing {
		t.Errorf("unexpected record after resume: %+v", *r)
	}
	if len(n.sent) != 1 || n.sent[0].body != "You still have 4.50h to work today" {
		t.Errorf("unexpected notifications: %+v", n.sent)
	}
}

func TestHandleAutomatic_ResumeBooksLockBreak(t *testing.T) {
	cfg := testSettings
	cfg.LockBreak = true
	e, _, n := newTestEngine(t, cfg, at("2024-01-02", "12:30:00"))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:00:00", End: "12:00:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusEnded,
	}})

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Get("2024-01-02")
	if r.Break != 60 {
		t.Errorf("Break = %d, want 60", r.Break)
	}
	if r.Overtime != -300 {
		t.Errorf("Overtime = %d, want -300", r.Overtime)
	}
	if r.Status != StatusOngoing {
		t.Errorf("Status = %q, want Ongoing", r.Status)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected one notification, got %+v", n.sent)
	}
	if n.sent[0].body != "Added automatic break of 30 minutes" || n.sent[0].subtitle != "You still have 5.00h to work today" {
		t.Errorf("unexpected notification: %+v", n.sent[0])
	}
}

func TestHandleAutomatic_OngoingResumeIsQuiet(t *testing.T) {
	e, _, n := newTestEngine(t, testSettings, at("2024-01-02", "10:01:00"))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:00:00", End: "10:00:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusOngoing,
	}})

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Get("2024-01-02")
	if r.End != "10:01:00" {
		t.Errorf("End = %q, want 10:01:00", r.End)
	}
	if len(n.sent) != 0 {
		t.Errorf("expected no notifications, got %+v", n.sent)
	}
}

func TestHandleAutomatic_ManualFreeze(t *testing.T) {
	original := DayRecord{
		Date: "2024-01-02", Start: "08:00:00", End: "16:00:00",
		Overtime: 0, Type: EntryManual, Break: 30, Work: 450, Status: StatusEnded,
	}
	e, clock, n := newTestEngine(t, testSettings, at("2024-01-02", "16:30:00"))
	l := New([]DayRecord{original})

	for i, locked := range []bool{false, true, false} {
		clock.now = clock.now.Add(17 * time.Minute)
		if err := e.HandleAutomatic(l, locked); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if HasChanged([]DayRecord{original}, l.Records()) {
			t.Fatalf("run %d modified manual record: %+v", i, l.Records())
		}
	}
	if len(n.sent) != 0 {
		t.Errorf("expected no notifications, got %+v", n.sent)
	}
}

func TestHandleAutomatic_FlexDayFrozen(t *testing.T) {
	e, _, _ := newTestEngine(t, testSettings, at("2024-01-02", "09:00:00"))
	l := New(nil)
	flex := e.Flex(l, at("2024-01-02", "00:00:00"))

	e2, _, _ := newTestEngine(t, testSettings, at("2024-01-02", "11:00:00"))
	if err := e2.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if HasChanged([]DayRecord{flex}, l.Records()) {
		t.Errorf("flex day was modified: %+v", l.Records())
	}
}

func TestHourlyReminder_WithState(t *testing.T) {
	state := memoryState{}
	e, clock, n := newTestEngine(t, testSettings, at("2024-01-02", "09:59:00"), WithStateStore(state))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:00:00", End: "09:58:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusOngoing,
	}})

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 0 {
		t.Fatalf("reminder before the first full hour: %+v", n.sent)
	}

	clock.now = at("2024-01-02", "11:15:00")
	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected one reminder, got %+v", n.sent)
	}
	if state[reminderKey("2024-01-02")] != "2" {
		t.Errorf("reminder state = %q, want 2", state[reminderKey("2024-01-02")])
	}

	clock.now = at("2024-01-02", "11:16:00")
	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 1 {
		t.Errorf("reminder repeated within the same hour: %+v", n.sent)
	}
}

func TestHourlyReminder_MinuteMatch(t *testing.T) {
	e, clock, n := newTestEngine(t, testSettings, at("2024-01-02", "11:15:20"))
	l := New([]DayRecord{{
		Date: "2024-01-02", Start: "09:15:00", End: "11:14:00",
		Type: EntryAutomatic, Break: 30, Work: 450, Status: StatusOngoing,
	}})

	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected reminder on matching minute, got %+v", n.sent)
	}

	clock.now = at("2024-01-02", "11:16:00")
	if err := e.HandleAutomatic(l, false); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 1 {
		t.Errorf("unexpected reminder off the start minute: %+v", n.sent)
	}
}

package ledgerfile

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead_MissingFileIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "work_hours.csv")

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %v", rows)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("ledger not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work_hours.csv")
	rows := [][]string{
		{"Date", "Start", "End", "Overtime", "Type", "Break time", "Work time", "Status"},
		{"2024-01-02", "09:00:00", "17:00:00", "0", "A", "30", "450", "Ended"},
		{"Total", "", "", "0min", "0.00h"},
	}

	if err := Write(path, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Date;Start;End;Overtime;Type;Break time;Work time;Status\n" +
		"2024-01-02;09:00:00;17:00:00;0;A;30;450;Ended\n" +
		"Total;;;0min;0.00h\n"
	if string(data) != want {
		t.Errorf("file content =\n%s\nwant\n%s", data, want)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("Read = %v, want %v", got, rows)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestDecode_ShortRows(t *testing.T) {
	rows, err := Decode(strings.NewReader("2023-11-01;08:00:00;16:00:00;00\n2023-11-02;08:00:00;16:00:00;0;M;30\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 4 || len(rows[1]) != 6 {
		t.Errorf("unexpected rows: %v", rows)
	}
}

package store

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "worktime.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestState_GetSet(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetState("reminder:2024-01-02")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty value for unset key, got %q", v)
	}

	if err := db.SetState("reminder:2024-01-02", "1"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := db.SetState("reminder:2024-01-02", "2"); err != nil {
		t.Fatalf("SetState overwrite: %v", err)
	}

	v, err = db.GetState("reminder:2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if v != "2" {
		t.Errorf("GetState = %q, want 2", v)
	}
}

func TestState_Prune(t *testing.T) {
	db := newTestDB(t)
	if err := db.SetState("reminder:old", "3"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetState("other", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE state SET updated_at = datetime('now', '-60 days')"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetState("reminder:new", "1"); err != nil {
		t.Fatal(err)
	}

	n, err := db.PruneState("reminder:", 30)
	if err != nil {
		t.Fatalf("PruneState: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	if v, _ := db.GetState("other"); v != "x" {
		t.Errorf("unrelated key pruned")
	}
	if v, _ := db.GetState("reminder:new"); v != "1" {
		t.Errorf("recent key pruned")
	}
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worktime.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetState("k", "v"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if v, _ := db.GetState("k"); v != "v" {
		t.Errorf("GetState after reopen = %q", v)
	}
}

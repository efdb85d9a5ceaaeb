package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) (*Bolt, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	return db, dbPath
}

func TestOpenCreatesInstanceID(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	id, err := db.InstanceID()
	if err != nil {
		t.Fatalf("Failed to get instance ID: %v", err)
	}
	if id == "" {
		t.Error("Instance ID should not be empty")
	}
}

func TestGetSetRemove(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	// Missing key
	if _, err := db.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := db.Set("token", "abc"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := db.Set("envelope", "xyz"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	got, err := db.Get("token")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got != "abc" {
		t.Errorf("Value mismatch: got %s, want abc", got)
	}

	// Remove both plus one that never existed
	if err := db.Remove("envelope", "token", "missing"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	for _, k := range []string{"envelope", "token"} {
		if _, err := db.Get(k); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected %s to be removed, got %v", k, err)
		}
	}
}

func TestClearAllKeepsInstanceID(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	before, err := db.InstanceID()
	if err != nil {
		t.Fatalf("Failed to get instance ID: %v", err)
	}

	if err := db.Set("a", "1"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := db.ClearAll(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if _, err := db.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after ClearAll, got %v", err)
	}

	// Store remains usable
	if err := db.Set("b", "2"); err != nil {
		t.Fatalf("Failed to set after clear: %v", err)
	}

	after, err := db.InstanceID()
	if err != nil {
		t.Fatalf("Failed to get instance ID: %v", err)
	}
	if before != after {
		t.Errorf("Instance ID changed: %s -> %s", before, after)
	}
}

func TestPersistence(t *testing.T) {
	db, dbPath := openTestDB(t)

	if err := db.Set("token", "persisted"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	id, _ := db.InstanceID()
	db.Close()

	// Reopen and verify
	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	got, err := db2.Get("token")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got != "persisted" {
		t.Error("Value not persisted correctly")
	}

	id2, _ := db2.InstanceID()
	if id != id2 {
		t.Errorf("Instance ID not persisted: %s -> %s", id, id2)
	}
}

func TestCompact(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.Set("keep", "value"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := db.Set("drop", string(make([]byte, 64*1024))); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := db.Remove("drop"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	got, err := db.Get("keep")
	if err != nil {
		t.Fatalf("Failed to get after compact: %v", err)
	}
	if got != "value" {
		t.Errorf("Value mismatch after compact: got %s", got)
	}
}

func TestCompactFailureKeepsStoreUsable(t *testing.T) {
	db, dbPath := openTestDB(t)
	defer db.Close()

	if err := db.Set("keep", "value"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	// A non-empty directory where the backup goes makes the swap fail
	backup := dbPath + ".backup"
	if err := os.MkdirAll(filepath.Join(backup, "occupied"), 0700); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	if err := db.Compact(); err == nil {
		t.Fatal("Expected Compact to fail")
	}

	got, err := db.Get("keep")
	if err != nil {
		t.Fatalf("Failed to get after failed compact: %v", err)
	}
	if got != "value" {
		t.Errorf("Value mismatch after failed compact: got %s", got)
	}
	if err := db.Set("after", "ok"); err != nil {
		t.Errorf("Store should accept writes after failed compact: %v", err)
	}
	if _, err := os.Stat(dbPath + ".compact"); !os.IsNotExist(err) {
		t.Errorf("Temporary compact file should be removed, got %v", err)
	}
	if db.Path() != dbPath {
		t.Errorf("Path changed: %s", db.Path())
	}
}

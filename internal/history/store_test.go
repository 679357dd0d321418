package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wingman/pkg/manager"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenAt(filepath.Join(t.TempDir(), "data", "test_history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestOpen(t *testing.T) {
	// Override the data directory
	originalXDG := os.Getenv("XDG_DATA_HOME")
	os.Setenv("XDG_DATA_HOME", t.TempDir())
	defer os.Setenv("XDG_DATA_HOME", originalXDG)

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()

	if store == nil {
		t.Fatal("Open() returned nil")
	}
}

func TestRecord(t *testing.T) {
	store := setupTestStore(t)

	entry := NewEntry(OpInstall, manager.SourceWinget, []string{"Git.Git", "7zip.7zip"})
	entry.MarkSuccess()

	err := store.Record(entry)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	// Verify it was recorded
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestRecordSameInstant(t *testing.T) {
	store := setupTestStore(t)

	ts := time.Now()
	for i := 0; i < 3; i++ {
		entry := NewEntry(OpInstall, manager.SourceWinget, []string{"Git.Git"})
		entry.Timestamp = ts
		if err := store.Record(entry); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	count, _ := store.Count()
	if count != 3 {
		t.Errorf("entries with identical timestamps should not collide, got %d", count)
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)

	// Record multiple entries
	base := time.Now()
	for i := 0; i < 5; i++ {
		entry := NewEntry(OpInstall, manager.SourceChocolatey, []string{"pkg" + string(rune('a'+i))})
		entry.Timestamp = base.Add(time.Duration(i) * time.Second)
		entry.MarkSuccess()
		store.Record(entry)
	}

	// List all
	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}

	// List with limit
	limitedEntries, err := store.List(3)
	if err != nil {
		t.Fatalf("List(3) error: %v", err)
	}
	if len(limitedEntries) != 3 {
		t.Errorf("expected 3 entries with limit, got %d", len(limitedEntries))
	}

	// Entries should be in reverse chronological order (newest first)
	if entries[0].Packages[0] != "pkge" || entries[4].Packages[0] != "pkga" {
		t.Errorf("List() should return newest first, got %v ... %v", entries[0].Packages, entries[4].Packages)
	}
}

func TestGet(t *testing.T) {
	store := setupTestStore(t)

	// Record an entry
	entry := NewEntry(OpInstall, manager.SourceWinget, []string{"Git.Git"})
	entry.MarkSuccess()
	store.Record(entry)

	// Get by ID
	retrieved, err := store.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if retrieved.ID != entry.ID {
		t.Errorf("Get() returned wrong entry: %s != %s", retrieved.ID, entry.ID)
	}

	// Get non-existent
	_, err = store.Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestLast(t *testing.T) {
	store := setupTestStore(t)

	// Empty store returns nil entry without error
	entry, err := store.Last()
	if err != nil || entry != nil {
		t.Errorf("Last() on empty store = %v, %v", entry, err)
	}

	// Add entries
	entry1 := NewEntry(OpInstall, manager.SourceWinget, []string{"Git.Git"})
	store.Record(entry1)

	entry2 := NewEntry(OpUninstall, manager.SourceWinget, []string{"7zip.7zip"})
	entry2.Timestamp = entry1.Timestamp.Add(time.Second)
	store.Record(entry2)

	// Get last
	last, err := store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}

	if last.ID != entry2.ID {
		t.Errorf("Last() returned wrong entry: %s != %s", last.ID, entry2.ID)
	}
}

func TestCount(t *testing.T) {
	store := setupTestStore(t)

	// Empty store
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 for empty store, got %d", count)
	}

	// Add entries
	for i := 0; i < 3; i++ {
		entry := NewEntry(OpInstall, manager.SourceWinget, []string{"pkg"})
		store.Record(entry)
	}

	count, err = store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	// Add entries
	for i := 0; i < 3; i++ {
		entry := NewEntry(OpInstall, manager.SourceWinget, []string{"pkg"})
		store.Record(entry)
	}

	// Clear
	err := store.Clear()
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	// Verify empty
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 after Clear(), got %d", count)
	}

	if last, _ := store.Last(); last != nil {
		t.Error("Last() should be nil after Clear()")
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	// Add an old entry (we'll manually set the timestamp)
	oldEntry := &Entry{
		ID:        "old-entry",
		Timestamp: time.Now().Add(-48 * time.Hour), // 2 days ago
		Operation: OpInstall,
		Source:    manager.SourceChocolatey,
		Packages:  []string{"old-pkg"},
		Success:   true,
	}
	store.Record(oldEntry)

	// Add a recent entry
	newEntry := NewEntry(OpInstall, manager.SourceChocolatey, []string{"new-pkg"})
	store.Record(newEntry)

	// Prune entries older than 24 hours
	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}

	if deleted != 1 {
		t.Errorf("expected 1 deleted entry, got %d", deleted)
	}

	// Verify only new entry remains
	count, _ := store.Count()
	if count != 1 {
		t.Errorf("expected 1 entry after prune, got %d", count)
	}
}

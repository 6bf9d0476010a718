package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/curatorlabs/curator/internal/inventory"
)

const testConnector = "main"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), ".curator.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() }) //nolint:errcheck // cleanup is best-effort
	return store
}

func testSnapshot() *inventory.Snapshot {
	return inventory.NewSnapshot([]inventory.Folder{
		{GUID: "g1", Path: "archive", CollectionGUID: "col-1"},
		{GUID: "g2", Path: "photos/2023", ObjectCount: 42, TotalSize: 4096},
		{GUID: "g3", Path: "photos/2024", ObjectCount: 7, TotalSize: 512},
	})
}

func TestOpen_CreatesDBAndSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", ".curator.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = store.Close() }() //nolint:errcheck // cleanup is best-effort

	// Should have schema_version table with version 1
	var version int
	ctx := context.Background()
	if err := store.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), ".curator.db")

	store1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	_ = store1.Close() //nolint:errcheck // cleanup is best-effort

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer func() { _ = store2.Close() }() //nolint:errcheck // cleanup is best-effort

	var version int
	ctx := context.Background()
	if err := store2.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestReplaceAndLoadFolders(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceFolders(testConnector, testSnapshot()); err != nil {
		t.Fatalf("ReplaceFolders failed: %v", err)
	}

	snap, err := store.LoadFolders(testConnector)
	if err != nil {
		t.Fatalf("LoadFolders failed: %v", err)
	}

	if snap.Len() != 3 {
		t.Fatalf("Len = %d, want 3", snap.Len())
	}

	folders := snap.Folders()
	if folders[0].Path != "archive" || folders[0].CollectionGUID != "col-1" {
		t.Errorf("first folder = %+v", folders[0])
	}
	if folders[1].ObjectCount != 42 || folders[1].TotalSize != 4096 {
		t.Errorf("second folder = %+v", folders[1])
	}
}

func TestReplaceFolders_ReplacesPrevious(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceFolders(testConnector, testSnapshot()); err != nil {
		t.Fatalf("first ReplaceFolders failed: %v", err)
	}

	smaller := inventory.NewSnapshot([]inventory.Folder{
		{GUID: "g9", Path: "videos"},
	})
	if err := store.ReplaceFolders(testConnector, smaller); err != nil {
		t.Fatalf("second ReplaceFolders failed: %v", err)
	}

	snap, err := store.LoadFolders(testConnector)
	if err != nil {
		t.Fatalf("LoadFolders failed: %v", err)
	}
	if snap.Len() != 1 || snap.Folders()[0].Path != "videos" {
		t.Errorf("snapshot not replaced: %+v", snap.Folders())
	}
}

func TestReplaceFolders_ConnectorsIsolated(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceFolders("main", testSnapshot()); err != nil {
		t.Fatalf("ReplaceFolders(main) failed: %v", err)
	}
	other := inventory.NewSnapshot([]inventory.Folder{{GUID: "x", Path: "misc"}})
	if err := store.ReplaceFolders("secondary", other); err != nil {
		t.Fatalf("ReplaceFolders(secondary) failed: %v", err)
	}

	snap, err := store.LoadFolders("main")
	if err != nil {
		t.Fatalf("LoadFolders(main) failed: %v", err)
	}
	if snap.Len() != 3 {
		t.Errorf("main Len = %d, want 3", snap.Len())
	}

	snap, err = store.LoadFolders("secondary")
	if err != nil {
		t.Fatalf("LoadFolders(secondary) failed: %v", err)
	}
	if snap.Len() != 1 {
		t.Errorf("secondary Len = %d, want 1", snap.Len())
	}
}

func TestLoadFolders_NeverSynced(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LoadFolders(testConnector)
	if err != nil {
		t.Fatalf("LoadFolders failed: %v", err)
	}
	if snap.Len() != 0 {
		t.Errorf("Len = %d, want 0", snap.Len())
	}
}

func TestLastSync(t *testing.T) {
	store := newTestStore(t)

	ts, err := store.LastSync(testConnector)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("LastSync before sync = %v, want zero time", ts)
	}

	if err := store.ReplaceFolders(testConnector, testSnapshot()); err != nil {
		t.Fatalf("ReplaceFolders failed: %v", err)
	}

	ts, err = store.LastSync(testConnector)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if ts.IsZero() {
		t.Error("LastSync after sync is zero")
	}
	if time.Since(ts) > time.Hour {
		t.Errorf("LastSync = %v, not recent", ts)
	}
}

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/logging"
)

func TestAcquireLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	lock, err := AcquireLock(dir, Lock{SessionID: "abc", Device: "Pad"}, logging.NopLogger())
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	if lock.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", lock.PID, os.Getpid())
	}

	held, locked := IsLocked(dir)
	if !locked {
		t.Fatal("IsLocked() = false after AcquireLock")
	}
	if held.SessionID != "abc" || held.Device != "Pad" {
		t.Errorf("lock = %+v", held)
	}

	// Our own PID is alive, so a second recorder is refused.
	if _, err := AcquireLock(dir, Lock{SessionID: "def"}, nil); !errors.Is(err, ErrLocked) {
		t.Errorf("second AcquireLock() error = %v, want ErrLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if _, locked := IsLocked(dir); locked {
		t.Error("IsLocked() = true after Release")
	}
}

func writeStaleLock(t *testing.T, dir string) {
	t.Helper()
	data, err := json.Marshal(Lock{SessionID: "ghost", PID: 999999999, Hostname: "h"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LockFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireLock_ReplacesStale(t *testing.T) {
	dir := t.TempDir()
	writeStaleLock(t, dir)

	if held, locked := IsLocked(dir); locked || held == nil {
		t.Fatalf("IsLocked() = %v, %v; want stale lock reported unlocked", held, locked)
	}

	lock, err := AcquireLock(dir, Lock{SessionID: "new"}, nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	defer lock.Release()
	if lock.SessionID != "new" {
		t.Errorf("SessionID = %q, want new", lock.SessionID)
	}
}

func TestCleanStaleLock(t *testing.T) {
	dir := t.TempDir()

	if cleaned, err := CleanStaleLock(dir, nil); cleaned || err != nil {
		t.Errorf("CleanStaleLock() with no lock = %v, %v", cleaned, err)
	}

	writeStaleLock(t, dir)
	cleaned, err := CleanStaleLock(dir, logging.NopLogger())
	if err != nil || !cleaned {
		t.Fatalf("CleanStaleLock() = %v, %v; want true, nil", cleaned, err)
	}
	if _, err := os.Stat(filepath.Join(dir, LockFileName)); !os.IsNotExist(err) {
		t.Error("stale lock file should be removed")
	}
}

func TestRelease_NotOwner(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireLock(dir, Lock{SessionID: "mine"}, nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	// Another session rewrote the file; Release must leave it alone.
	data, _ := json.Marshal(Lock{SessionID: "theirs", PID: os.Getpid()})
	if err := os.WriteFile(filepath.Join(dir, LockFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, LockFileName)); err != nil {
		t.Error("lock owned by another session was removed")
	}
}

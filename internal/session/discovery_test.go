package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

func writeFile(t *testing.T, dir, name, content string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "old.csv", "timestamp\n1\n", base)
	writeFile(t, dir, "new.parquet", "PAR1", base.Add(time.Hour))
	writeFile(t, dir, "mid.CSV", "timestamp\n", base.Add(time.Minute))
	writeFile(t, dir, "notes.txt", "ignore me", base.Add(2*time.Hour))
	writeFile(t, dir, "crashed.csv.partial", "timestamp\n", base.Add(3*time.Hour))
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	sessions, err := ListSessions(dir)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}

	var names []string
	for _, s := range sessions {
		names = append(names, s.Name)
	}
	want := []string{"new.parquet", "mid.CSV", "old.csv"}
	if len(names) != len(want) {
		t.Fatalf("ListSessions() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("sessions[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if sessions[0].Format != serialize.FormatParquet {
		t.Errorf("Format = %v, want parquet", sessions[0].Format)
	}
	if sessions[2].Size != int64(len("timestamp\n1\n")) {
		t.Errorf("Size = %d", sessions[2].Size)
	}
	if sessions[2].Rows != -1 {
		t.Errorf("Rows = %d before Inspect, want -1", sessions[2].Rows)
	}
}

func TestListSessions_MissingDir(t *testing.T) {
	sessions, err := ListSessions(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ListSessions() = %v, want none", sessions)
	}
}

func TestGetSessionInfo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.csv", "timestamp,axis0\n", time.Now())

	if _, err := GetSessionInfo(dir, "missing.csv"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetSessionInfo(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := GetSessionInfo(dir, "run.txt"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("GetSessionInfo(run.txt) error = %v, want ErrInvalidInput", err)
	}
	if !SessionExists(dir, "run.csv") {
		t.Error("SessionExists(run.csv) = false")
	}
	if SessionExists(dir, "run.parquet") {
		t.Error("SessionExists(run.parquet) = true")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.csv", "timestamp,axis0,button0\n1.5,0.25,1\n1.52,-0.5,0\n", time.Now())

	info, err := GetSessionInfo(dir, "run.csv")
	if err != nil {
		t.Fatalf("GetSessionInfo() error = %v", err)
	}
	if err := Inspect(info); err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Rows != 2 {
		t.Errorf("Rows = %d, want 2", info.Rows)
	}
	if len(info.Columns) != 3 || info.Columns[2] != "button0" {
		t.Errorf("Columns = %v", info.Columns)
	}
}

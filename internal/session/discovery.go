// Package session finds saved capture files and guards against two
// recorders running at once.
package session

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

// Info describes one saved capture file.
type Info struct {
	Name    string           `json:"name"`
	Path    string           `json:"path"`
	Format  serialize.Format `json:"-"`
	Size    int64            `json:"size"`
	ModTime time.Time        `json:"mod_time"`

	// Filled in by Inspect. Rows is -1 until then.
	Rows    int      `json:"rows"`
	Columns []string `json:"columns,omitempty"`
}

// ListSessions returns the capture files in dir, newest first. A missing
// directory has no sessions. Staging files from an interrupted flush are
// skipped.
func ListSessions(dir string) ([]*Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []*Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := GetSessionInfo(dir, entry.Name())
		if err != nil {
			// Skip files we can't stat or don't recognise
			continue
		}
		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].ModTime.After(sessions[j].ModTime)
		}
		return sessions[i].Name > sessions[j].Name
	})
	return sessions, nil
}

// GetSessionInfo returns file information for one capture file in dir.
func GetSessionInfo(dir, name string) (*Info, error) {
	if strings.HasSuffix(name, ".partial") {
		return nil, errors.NewValidationError("staging file").WithField("name").WithValue(name)
	}
	format, ok := serialize.FormatForPath(name)
	if !ok {
		return nil, errors.NewValidationError("not a capture file").WithField("name").WithValue(name)
	}

	path := filepath.Join(dir, name)
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("session", name)
		}
		return nil, err
	}
	if st.IsDir() {
		return nil, errors.NewValidationError("is a directory").WithField("name").WithValue(name)
	}

	return &Info{
		Name:    name,
		Path:    path,
		Format:  format,
		Size:    st.Size(),
		ModTime: st.ModTime(),
		Rows:    -1,
	}, nil
}

// Inspect reads the file to fill in Rows and Columns.
func Inspect(info *Info) error {
	table, err := serialize.Load(info.Path)
	if err != nil {
		return err
	}
	info.Rows = len(table.Rows)
	info.Columns = table.Columns
	return nil
}

// SessionExists reports whether dir holds a capture file called name.
func SessionExists(dir, name string) bool {
	_, err := GetSessionInfo(dir, name)
	return err == nil
}

package device

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// Info describes a discovered controller.
type Info struct {
	Path string
	Name string
	Caps record.Capabilities
	// Err is set when the node matched but could not be opened.
	Err error
}

// MatchPaths returns the device nodes matching pattern in natural order
// (js2 before js10). Wildcards are only allowed in the final path element.
func MatchPaths(pattern string) ([]string, error) {
	dir, base := filepath.Split(pattern)
	if dir == "" {
		dir = "."
	}
	if strings.ContainsAny(dir, "*?[{") {
		return nil, errors.NewValidationError("wildcards are only supported in the file name").
			WithField("device.pattern").
			WithValue(pattern)
	}

	g, err := glob.Compile(base)
	if err != nil {
		return nil, errors.NewValidationError("invalid device pattern: " + err.Error()).
			WithField("device.pattern").
			WithValue(pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Slice(paths, func(i, k int) bool {
		if len(paths[i]) != len(paths[k]) {
			return len(paths[i]) < len(paths[k])
		}
		return paths[i] < paths[k]
	})
	return paths, nil
}

// Discover probes every node matching pattern. Nodes that cannot be opened
// are still listed, with Err set.
func Discover(pattern string) ([]Info, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	paths, err := MatchPaths(pattern)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(paths))
	for _, p := range paths {
		infos = append(infos, Probe(NewJoystick(p, "")))
	}
	return infos, nil
}

// Probe opens r just long enough to read its name and capabilities.
func Probe(r Reader) Info {
	info := Info{}
	if j, ok := r.(*Joystick); ok {
		info.Path = j.Path()
	}
	if err := r.Open(); err != nil {
		info.Err = err
		return info
	}
	defer func() { _ = r.Close() }()

	info.Name = r.Name()
	if s := r.Schema(); s != nil {
		info.Caps = s.Capabilities()
	}
	return info
}

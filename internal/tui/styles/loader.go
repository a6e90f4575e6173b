package styles

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/padlog/internal/errors"
)

// ThemeFile is a custom color scheme loaded from YAML.
type ThemeFile struct {
	Name    string      `yaml:"name"`
	Version string      `yaml:"version"`
	Colors  ThemeColors `yaml:"colors"`
}

// ThemeColors are hex colors (#RGB or #RRGGBB). Empty values keep the
// built-in color.
type ThemeColors struct {
	Primary   string `yaml:"primary,omitempty"`
	Recording string `yaml:"recording,omitempty"`
	Idle      string `yaml:"idle,omitempty"`
	Warning   string `yaml:"warning,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Muted     string `yaml:"muted,omitempty"`
	Surface   string `yaml:"surface,omitempty"`
	Text      string `yaml:"text,omitempty"`
	Border    string `yaml:"border,omitempty"`
	Active    string `yaml:"active,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile reads and validates a theme.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("theme", path)
		}
		return nil, errors.Wrap(err, "reading theme file")
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, errors.NewValidationError("parsing theme file: " + err.Error()).WithValue(path)
	}
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	return &theme, nil
}

// Validate checks the version and every color that is set.
func (t *ThemeFile) Validate() error {
	if t.Version != "" && t.Version != "1" {
		return errors.NewValidationError(fmt.Sprintf("unsupported theme version %s (supported: 1)", t.Version)).
			WithField("version").
			WithValue(t.Version)
	}
	for _, c := range t.Colors.entries() {
		if c.value != "" && !isValidHexColor(c.value) {
			return errors.NewValidationError("expected #RGB or #RRGGBB").
				WithField("colors." + c.name).
				WithValue(c.value)
		}
	}
	return nil
}

type colorEntry struct {
	name   string
	value  string
	target *lipgloss.Color
}

func (c ThemeColors) entries() []colorEntry {
	return []colorEntry{
		{"primary", c.Primary, &PrimaryColor},
		{"recording", c.Recording, &RecordingColor},
		{"idle", c.Idle, &IdleColor},
		{"warning", c.Warning, &WarningColor},
		{"error", c.Error, &ErrorColor},
		{"muted", c.Muted, &MutedColor},
		{"surface", c.Surface, &SurfaceColor},
		{"text", c.Text, &TextColor},
		{"border", c.Border, &BorderColor},
		{"active", c.Active, &ActiveColor},
	}
}

// Apply installs the theme's colors and rebuilds the styles. It must be
// called before the live view starts rendering.
func (t *ThemeFile) Apply() {
	for _, c := range t.Colors.entries() {
		if c.value != "" {
			*c.target = lipgloss.Color(c.value)
		}
	}
	rebuild()
}

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/padlog/internal/errors"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#A78BFA", true},
		{"#a78bfa", true},
		{"#ABC", true},
		{"A78BFA", false},
		{"#AB", false},
		{"#ABCD", false},
		{"#GHIJKL", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidHexColor(tt.color); got != tt.want {
			t.Errorf("isValidHexColor(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestThemeFile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		theme   ThemeFile
		wantErr bool
	}{
		{"empty is valid", ThemeFile{}, false},
		{"partial colors", ThemeFile{Version: "1", Colors: ThemeColors{Recording: "#FF0000"}}, false},
		{"bad color", ThemeFile{Colors: ThemeColors{Idle: "green"}}, true},
		{"bad version", ThemeFile{Version: "2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.theme.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func saveColors(t *testing.T) {
	t.Helper()
	saved := map[*lipgloss.Color]lipgloss.Color{}
	for _, c := range (ThemeColors{}).entries() {
		saved[c.target] = *c.target
	}
	t.Cleanup(func() {
		for p, v := range saved {
			*p = v
		}
		rebuild()
	})
}

func TestLoadThemeFile_Apply(t *testing.T) {
	saveColors(t)
	path := filepath.Join(t.TempDir(), "theme.yaml")
	content := "name: Mono\nversion: \"1\"\ncolors:\n  recording: \"#FF0000\"\n  border: \"#333\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadThemeFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFile() error = %v", err)
	}
	if theme.Name != "Mono" {
		t.Errorf("Name = %q, want Mono", theme.Name)
	}

	before := IdleColor
	theme.Apply()
	if RecordingColor != lipgloss.Color("#FF0000") {
		t.Errorf("RecordingColor = %v, want #FF0000", RecordingColor)
	}
	if BorderColor != lipgloss.Color("#333") {
		t.Errorf("BorderColor = %v, want #333", BorderColor)
	}
	if IdleColor != before {
		t.Errorf("IdleColor changed to %v, unset colors must be kept", IdleColor)
	}
}

func TestLoadThemeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadThemeFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("colors: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThemeFile(bad); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("malformed file error = %v, want ErrInvalidInput", err)
	}
}

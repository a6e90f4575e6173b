package capture

import (
	"math"
	"testing"
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

func TestRateMeter(t *testing.T) {
	m := NewRateMeter(4)
	if m.Rate() != 0 {
		t.Errorf("Rate() with no samples = %v, want 0", m.Rate())
	}

	base := time.Unix(1000, 0)
	m.Observe(base)
	if m.Period() != 0 {
		t.Errorf("Period() with one sample = %v, want 0", m.Period())
	}

	for i := 1; i < 10; i++ {
		m.Observe(base.Add(time.Duration(i) * 20 * time.Millisecond))
	}
	if got := m.Period(); got != 20*time.Millisecond {
		t.Errorf("Period() = %v, want 20ms", got)
	}
	if got := m.Rate(); math.Abs(got-50) > 1e-9 {
		t.Errorf("Rate() = %v, want 50", got)
	}

	// Only the window is averaged: a slower tail shows up immediately.
	for i := 0; i < 4; i++ {
		m.Observe(base.Add(time.Second + time.Duration(i)*100*time.Millisecond))
	}
	if got := m.Period(); got != 100*time.Millisecond {
		t.Errorf("Period() after slowdown = %v, want 100ms", got)
	}
}

func TestNewRateMeter_MinimumWindow(t *testing.T) {
	m := NewRateMeter(0)
	base := time.Unix(0, 0)
	m.Observe(base)
	m.Observe(base.Add(10 * time.Millisecond))
	if got := m.Period(); got != 10*time.Millisecond {
		t.Errorf("Period() = %v, want 10ms", got)
	}
}

func TestConfig_Path(t *testing.T) {
	now := time.Date(2024, 1, 31, 14, 5, 9, 0, time.Local)
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "template",
			cfg:  Config{SaveDir: "logs", FilenameTemplate: "%Y-%m-%d", Format: serialize.FormatCSV},
			want: "logs/2024-01-31.csv",
		},
		{
			name: "explicit without extension",
			cfg:  Config{SaveDir: "out", Filename: "lap1", Format: serialize.FormatParquet},
			want: "out/lap1.parquet",
		},
		{
			name: "explicit with extension",
			cfg:  Config{SaveDir: "out", Filename: "lap1.csv", Format: serialize.FormatCSV},
			want: "out/lap1.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Path(now)
			if err != nil {
				t.Fatalf("Path() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{SampleInterval: time.Millisecond, SaveDir: "logs", Format: serialize.FormatCSV}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	bad := valid
	bad.SampleInterval = -time.Second
	err := bad.Validate()
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	if verr.Field != "sample_interval" {
		t.Errorf("Field = %q, want sample_interval", verr.Field)
	}
}

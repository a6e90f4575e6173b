package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/event"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaultsOn(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			t.Fatalf("ReadInConfig() error = %v", err)
		}
	}
	return v
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Capture.LogFormat != "parquet" {
		t.Errorf("Capture.LogFormat = %q, want parquet", cfg.Capture.LogFormat)
	}
	if cfg.Capture.SaveDir != "logs" {
		t.Errorf("Capture.SaveDir = %q, want logs", cfg.Capture.SaveDir)
	}
	if cfg.Capture.SampleInterval != 0.02 {
		t.Errorf("Capture.SampleInterval = %v, want 0.02", cfg.Capture.SampleInterval)
	}
	if cfg.Capture.FilenameTemplate != serialize.DefaultFilenameTemplate {
		t.Errorf("Capture.FilenameTemplate = %q", cfg.Capture.FilenameTemplate)
	}
	if cfg.Device.Pattern != "/dev/input/js*" {
		t.Errorf("Device.Pattern = %q", cfg.Device.Pattern)
	}
	if cfg.Device.Simulate {
		t.Error("Device.Simulate should be false by default")
	}
	if cfg.LiveView.StatusIntervalMs != 500 {
		t.Errorf("LiveView.StatusIntervalMs = %d, want 500", cfg.LiveView.StatusIntervalMs)
	}
	if cfg.LiveView.UpdateHz != 30 {
		t.Errorf("LiveView.UpdateHz = %d, want 30", cfg.LiveView.UpdateHz)
	}
	if !cfg.LiveView.FlushOnStop {
		t.Error("LiveView.FlushOnStop should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(newViper(t, ""))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadFrom() = %+v, want defaults", cfg)
	}
}

func TestLoadFrom_File(t *testing.T) {
	v := newViper(t, `
capture:
  log_format: csv
  save_dir: /tmp/pads
  sample_interval: 0.05
liveview:
  update_hz: 60
`)
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Capture.LogFormat != "csv" {
		t.Errorf("LogFormat = %q, want csv", cfg.Capture.LogFormat)
	}
	if cfg.Capture.SaveDir != "/tmp/pads" {
		t.Errorf("SaveDir = %q", cfg.Capture.SaveDir)
	}
	if cfg.Capture.SampleIntervalDuration() != 50*time.Millisecond {
		t.Errorf("SampleIntervalDuration() = %v, want 50ms", cfg.Capture.SampleIntervalDuration())
	}
	if cfg.LiveView.UpdateHz != 60 {
		t.Errorf("UpdateHz = %d, want 60", cfg.LiveView.UpdateHz)
	}
	// Unset keys keep their defaults.
	if cfg.Capture.FilenameTemplate != serialize.DefaultFilenameTemplate {
		t.Errorf("FilenameTemplate = %q", cfg.Capture.FilenameTemplate)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("PADLOG_CAPTURE_LOG_FORMAT", "csv")
	t.Setenv("PADLOG_DEVICE_SIMULATE", "true")

	v := newViper(t, "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Capture.LogFormat != "csv" {
		t.Errorf("LogFormat = %q, want csv", cfg.Capture.LogFormat)
	}
	if !cfg.Device.Simulate {
		t.Error("Device.Simulate should be true from env")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	v := newViper(t, `
capture:
  log_format: xlsx
  sample_interval: 5
`)
	cfg, err := LoadFrom(v)
	if err == nil {
		t.Fatalf("LoadFrom() = %+v, want error", cfg)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(verrs), verrs)
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("ValidationErrors should match ErrInvalidInput")
	}
	if got := errors.GetSeverity(err); got != errors.SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", got)
	}
	if !errors.IsUserFacing(err) {
		t.Error("ValidationErrors should be user facing")
	}
}

func TestLoadFrom_UnmarshalError(t *testing.T) {
	v := newViper(t, `
capture:
  sample_interval: fast
`)
	_, err := LoadFrom(v)
	if !errors.Is(err, errors.ErrConfigLoad) {
		t.Errorf("LoadFrom() error = %v, want ErrConfigLoad", err)
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	v := viper.New()
	SetDefaultsOn(v)
	v.SetConfigFile(path)

	cfg, err := Reload(v)
	if err != nil {
		t.Fatalf("Reload() with missing file error = %v", err)
	}
	if cfg.Capture.LogFormat != "parquet" {
		t.Errorf("LogFormat = %q, want parquet", cfg.Capture.LogFormat)
	}

	if err := os.WriteFile(path, []byte("capture:\n  log_format: csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Reload(v)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cfg.Capture.LogFormat != "csv" {
		t.Errorf("LogFormat = %q, want csv", cfg.Capture.LogFormat)
	}
}

func TestCaptureConfig(t *testing.T) {
	cfg := Default()
	cfg.Capture.LogFormat = "csv"
	cfg.Capture.SampleInterval = 0.01

	cc, err := cfg.CaptureConfig("run1")
	if err != nil {
		t.Fatalf("CaptureConfig() error = %v", err)
	}
	if cc.Format != serialize.FormatCSV {
		t.Errorf("Format = %v, want csv", cc.Format)
	}
	if cc.SampleInterval != 10*time.Millisecond {
		t.Errorf("SampleInterval = %v, want 10ms", cc.SampleInterval)
	}
	if cc.Filename != "run1" || cc.SaveDir != "logs" {
		t.Errorf("CaptureConfig() = %+v", cc)
	}

	cfg.Capture.LogFormat = "xml"
	if _, err := cfg.CaptureConfig(""); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("CaptureConfig() with bad format error = %v", err)
	}
}

func TestDeviceOptions(t *testing.T) {
	cfg := Default()
	cfg.Device.Simulate = true
	cfg.Device.SimAxes = 2

	opts := cfg.DeviceOptions()
	if !opts.Simulate || opts.Sim.Axes != 2 || opts.Sim.Buttons != 12 || !opts.Sim.HasHat {
		t.Errorf("DeviceOptions() = %+v", opts)
	}
	if opts.Pattern != cfg.Device.Pattern {
		t.Errorf("Pattern = %q", opts.Pattern)
	}
}

func TestThrottleOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.ThrottleOptions()
	if opts.StatusInterval != 500*time.Millisecond {
		t.Errorf("StatusInterval = %v, want 500ms", opts.StatusInterval)
	}
	if opts.UpdateInterval != time.Second/30 {
		t.Errorf("UpdateInterval = %v, want %v", opts.UpdateInterval, time.Second/30)
	}
}

func TestLogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	cfg := Default()
	if got := cfg.LogDir(); got != "/custom/config/padlog/logs" {
		t.Errorf("LogDir() = %q", got)
	}
	cfg.Logging.Dir = "/var/log/padlog"
	if got := cfg.LogDir(); got != "/var/log/padlog" {
		t.Errorf("LogDir() = %q", got)
	}
	if rc := cfg.RotationConfig(); rc.MaxSizeMB != 10 || rc.MaxBackups != 3 {
		t.Errorf("RotationConfig() = %+v", rc)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/padlog" {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/padlog/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "padlog")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("capture:\n  log_format: csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	bus := event.NewBus()
	published := make(chan string, 4)
	bus.Subscribe(event.TypeConfigChanged, func(e event.Event) {
		published <- e.(event.ConfigChangedEvent).Path
	})

	w, err := NewWatcher(path, bus)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	called := make(chan string, 4)
	w.SetChangeCallback(func(p string) { called <- p })
	w.Start()
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("capture:\n  log_format: parquet\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-called:
		if got != w.Path() {
			t.Errorf("callback path = %q, want %q", got, w.Path())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change callback not called")
	}
	select {
	case got := <-published:
		if got != w.Path() {
			t.Errorf("event path = %q, want %q", got, w.Path())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ConfigChangedEvent not published")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	w.Stop()
	w.Stop()
}

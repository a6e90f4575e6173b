package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/padlog/internal/config"
)

// setupConfigHome points the config directory at a temp dir and resets
// the global viper instance.
func setupConfigHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)
	return filepath.Join(home, appconfig.AppName)
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	c := &cobra.Command{}
	c.SetOut(buf)
	c.SetErr(buf)
	return c, buf
}

func loadFile(t *testing.T, path string) *appconfig.Config {
	t.Helper()
	v := viper.New()
	appconfig.SetDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}
	cfg, err := appconfig.LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	return cfg
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"capture.log_format", "CSV", "csv", false},
		{"capture.log_format", "json", nil, true},
		{"capture.sample_interval", "0.01", 0.01, false},
		{"capture.sample_interval", "fast", nil, true},
		{"device.simulate", "true", true, false},
		{"device.simulate", "yes", nil, true},
		{"device.sim_axes", "6", 6, false},
		{"device.sim_axes", "-1", nil, true},
		{"logging.level", "DEBUG", "debug", false},
		{"logging.level", "trace", nil, true},
		{"capture.save_dir", "/tmp/pads", "/tmp/pads", false},
		{"nope.key", "1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRunConfigSet(t *testing.T) {
	dir := setupConfigHome(t)
	c, buf := testCmd()

	if err := runConfigSet(c, []string{"capture.log_format", "csv"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Set capture.log_format = csv") {
		t.Errorf("output = %q", buf.String())
	}

	cfg := loadFile(t, filepath.Join(dir, "config.yaml"))
	if cfg.Capture.LogFormat != "csv" {
		t.Errorf("LogFormat = %q, want csv", cfg.Capture.LogFormat)
	}
}

func TestRunConfigSet_RejectsOutOfRange(t *testing.T) {
	dir := setupConfigHome(t)
	c, _ := testCmd()

	if err := runConfigSet(c, []string{"capture.sample_interval", "5"}); err == nil {
		t.Fatal("runConfigSet() should reject a 5 s interval")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Error("rejected value must not be written")
	}
	if got := viper.GetFloat64("capture.sample_interval"); got != appconfig.Default().Capture.SampleInterval {
		t.Errorf("in-memory value = %v, want the previous one", got)
	}
}

func TestRunConfigInit(t *testing.T) {
	dir := setupConfigHome(t)
	c, buf := testCmd()

	if err := runConfigInit(c, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Created config file") {
		t.Errorf("output = %q", buf.String())
	}

	cfg := loadFile(t, filepath.Join(dir, "config.yaml"))
	if !reflect.DeepEqual(cfg, appconfig.Default()) {
		t.Errorf("generated config = %+v, want defaults %+v", cfg, appconfig.Default())
	}

	if err := runConfigInit(c, nil); err == nil {
		t.Error("second runConfigInit() should refuse to overwrite")
	}
}

func TestRunConfigShow(t *testing.T) {
	setupConfigHome(t)
	viper.Set("capture.save_dir", "/data/pads")
	c, buf := testCmd()

	if err := runConfigShow(c, nil); err != nil {
		t.Fatalf("runConfigShow() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"(none - using defaults)", "log_format: parquet", "save_dir: /data/pads", "update_hz: 30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConfigReset(t *testing.T) {
	dir := setupConfigHome(t)
	c, _ := testCmd()

	if err := runConfigSet(c, []string{"liveview.update_hz", "60"}); err != nil {
		t.Fatal(err)
	}
	if err := runConfigReset(c, []string{"liveview.update_hz"}); err != nil {
		t.Fatalf("runConfigReset() error = %v", err)
	}
	cfg := loadFile(t, filepath.Join(dir, "config.yaml"))
	if cfg.LiveView.UpdateHz != 30 {
		t.Errorf("UpdateHz = %d, want 30", cfg.LiveView.UpdateHz)
	}

	if err := runConfigReset(c, []string{"bogus"}); err == nil {
		t.Error("reset of an unknown key should fail")
	}
}

func TestRunConfigPath(t *testing.T) {
	dir := setupConfigHome(t)
	c, buf := testCmd()
	if err := runConfigPath(c, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), filepath.Join(dir, "config.yaml")) {
		t.Errorf("output = %q, want the config path", buf.String())
	}
}

// Package record provides the record command: the capture session runner
// with its live view, headless mode and config reload.
package record

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/padlog/internal/capture"
	appconfig "github.com/Iron-Ham/padlog/internal/config"
	"github.com/Iron-Ham/padlog/internal/device"
	"github.com/Iron-Ham/padlog/internal/event"
	"github.com/Iron-Ham/padlog/internal/logging"
	"github.com/Iron-Ham/padlog/internal/session"
	"github.com/Iron-Ham/padlog/internal/throttle"
	"github.com/Iron-Ham/padlog/internal/tui"
	"github.com/Iron-Ham/padlog/internal/tui/styles"
)

var recordCmd = &cobra.Command{
	Use:   "record [filename]",
	Short: "Record controller input",
	Long: `Record controller input until stopped.

In a terminal this opens the live view: 's' starts and stops recording,
'n' edits the filename and 'q' quits (saving a running recording first).

With --headless, or when stdout is not a terminal, status lines are
printed instead and the recording stops on Ctrl-C, SIGTERM or when
--duration expires. The exit status is non-zero if the device could not
be opened, failed mid-recording, or the file could not be written.

Without a filename the name comes from capture.filename_template.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

var (
	duration time.Duration
	headless bool
	reload   bool
	simulate bool
)

func init() {
	recordCmd.Flags().DurationVar(&duration, "duration", 0, "stop automatically after this long (implies --headless)")
	recordCmd.Flags().BoolVar(&headless, "headless", false, "print status lines instead of the live view")
	recordCmd.Flags().BoolVar(&reload, "reload", false, "restart the recording when the config file changes")
	recordCmd.Flags().BoolVar(&simulate, "simulate", false, "record a synthetic controller")
}

// Register adds the record command to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(recordCmd)
}

// recordEnv carries the configuration sessions are planned from. It is
// swapped as a whole on reload, so a running session never sees a change.
type recordEnv struct {
	cfg      atomic.Pointer[appconfig.Config]
	simulate bool
}

func newRecordEnv(cfg *appconfig.Config, simulate bool) *recordEnv {
	r := &recordEnv{simulate: simulate}
	r.cfg.Store(cfg)
	return r
}

func (r *recordEnv) config() *appconfig.Config {
	return r.cfg.Load()
}

// plan implements capture.Planner.
func (r *recordEnv) plan(filename string) (capture.Plan, error) {
	cfg := r.config()
	cc, err := cfg.CaptureConfig(filename)
	if err != nil {
		return capture.Plan{}, err
	}
	opts := cfg.DeviceOptions()
	if r.simulate {
		opts.Simulate = true
	}
	return capture.Plan{
		Config:      cc,
		Reader:      device.New(opts),
		Channel:     throttle.New(cfg.ThrottleOptions()),
		FlushOnStop: cfg.LiveView.FlushOnStop,
	}, nil
}

// reloadConfig re-reads the config file. On failure the current
// configuration stays in place.
func (r *recordEnv) reloadConfig(v *viper.Viper, logger *logging.Logger) error {
	cfg, err := appconfig.Reload(v)
	if err != nil {
		logger.LogError("config reload rejected", err)
		return err
	}
	r.cfg.Store(cfg)
	logger.Info("config reloaded", "file", v.ConfigFileUsed())
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	filename := ""
	if len(args) > 0 {
		filename = args[0]
	}

	cfg, loadErr := appconfig.Load()
	if loadErr != nil {
		cfg = appconfig.Default()
	}
	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()
	if loadErr != nil {
		logger.Warn("invalid configuration, using defaults", "error", loadErr)
	}

	rt := newRecordEnv(cfg, simulate || cfg.Device.Simulate)

	lock, err := session.AcquireLock(appconfig.ConfigDir(), session.Lock{
		SessionID: strconv.FormatInt(time.Now().UnixNano(), 36),
		Device:    deviceLabel(cfg, rt.simulate),
		Path:      cfg.Capture.SaveDir,
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	bus := event.NewBus()
	bus.SetLogger(logger.Slog())
	rec := capture.NewRecorder(capture.RecorderOptions{
		Planner: rt.plan,
		Bus:     bus,
		Logger:  logger,
	})

	useTUI := !headless && duration == 0 && term.IsTerminal(int(os.Stdout.Fd()))

	var watcher *appconfig.Watcher
	if reload {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = appconfig.ConfigFile()
		}
		watcher, err = appconfig.NewWatcher(path, bus)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if !useTUI {
		h := &headlessRunner{
			rec:      rec,
			bus:      bus,
			out:      cmd.OutOrStdout(),
			duration: duration,
			logger:   logger,
		}
		if watcher != nil {
			reloads := make(chan struct{}, 1)
			watcher.SetChangeCallback(func(string) {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
			h.reloads = reloads
			h.onReload = func() error { return rt.reloadConfig(viper.GetViper(), logger) }
			watcher.Start()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return h.run(ctx, filename)
	}

	if theme := cfg.LiveView.ThemeFile; theme != "" {
		t, err := styles.LoadThemeFile(theme)
		if err != nil {
			logger.Warn("theme not loaded", "file", theme, "error", err)
		} else {
			t.Apply()
		}
	}

	app := tui.NewApp(rec, tui.Options{Filename: filename, AutoStart: true})
	if watcher != nil {
		watcher.SetChangeCallback(func(string) {
			if err := rt.reloadConfig(viper.GetViper(), logger); err != nil {
				app.Notify("config reload rejected: " + err.Error())
				return
			}
			if !rec.Running() {
				app.Notify("config reloaded")
				return
			}
			if _, err := rec.Restart(); err != nil {
				app.Notify("restart failed: " + err.Error())
				return
			}
			app.Notify("config reloaded, recording restarted")
		})
		watcher.Start()
	}
	return app.Run()
}

// createLogger builds the application logger. Failure to create it never
// prevents recording.
func createLogger(cfg *appconfig.Config) *logging.Logger {
	logger, err := logging.NewLogger(cfg.LogDir(), cfg.Logging.Level, cfg.RotationConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

func deviceLabel(cfg *appconfig.Config, simulated bool) string {
	switch {
	case simulated:
		return "simulated"
	case cfg.Device.Path != "":
		return cfg.Device.Path
	default:
		return cfg.Device.Pattern
	}
}

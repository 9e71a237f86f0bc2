package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/app"
	"github.com/ayusman/robohand/internal/capture"
	"github.com/ayusman/robohand/internal/config"
	"github.com/ayusman/robohand/internal/logging"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/plugin"
	"github.com/ayusman/robohand/internal/server"
	"github.com/ayusman/robohand/internal/store"
	"github.com/ayusman/robohand/internal/tray"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $ROBOHAND_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger isn't configured yet
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("robohand stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()
	log.Info().Str("path", st.Path()).Msg("store opened")

	m := metrics.New()

	plugins := plugin.NewManager(cfg.PluginDir, logging.Component(log, "plugin"))
	if err := plugins.Discover(); err != nil {
		log.Warn().Err(err).Msg("plugin discovery failed")
	}

	hub := server.NewHub(logging.Component(log, "hub"))
	broadcasters := app.Broadcasters{hub}

	var t *tray.Tray
	if cfg.Tray.Enabled {
		t = tray.New()
		broadcasters = append(broadcasters, t)
	}

	dispatcher := app.NewDispatcher(app.DispatcherConfig{
		Store:       st,
		Plugins:     plugins,
		Executor:    plugin.NewExecutor(cfg.Plugin.Timeout),
		Metrics:     m,
		Broadcaster: broadcasters,
		QueueSize:   cfg.Plugin.QueueSize,
		Log:         logging.Component(log, "dispatch"),
	})
	defer dispatcher.Close()

	var capt *app.App
	if cfg.Camera.Enabled {
		capt, err = app.New(app.Config{
			Camera:         capture.NewCamera(cfg.CaptureConfig()),
			DetectorConfig: cfg.DetectorConfig(),
			Session:        cfg.SessionConfig(),
			Dispatcher:     dispatcher,
			Metrics:        m,
			Log:            log,
		})
		if err != nil {
			return fmt.Errorf("initialize capture: %w", err)
		}
		if err := capt.Start(); err != nil {
			return fmt.Errorf("start capture: %w", err)
		}
		defer capt.Stop()
	}

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info().Str("dir", webDir).Msg("serving static files")
	}

	srvCfg := server.Config{
		StaticDir:  webDir,
		Store:      st,
		Plugins:    plugins,
		Session:    cfg.SessionConfig(),
		Dispatcher: dispatcher,
		Hub:        hub,
		Metrics:    m,
		Log:        logging.Component(log, "http"),
	}
	if capt != nil {
		srvCfg.Capture = capt
	}
	srv := server.New(srvCfg)

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(cfg.Addr)
		errCh <- err
		if err != nil {
			stop()
		}
	}()

	if t != nil {
		t.OnToggle(func(enabled bool) {
			if capt != nil {
				capt.SetEnabled(enabled)
			}
		})
		t.OnSettings(func() { openBrowser("http://localhost" + cfg.Addr) })
		t.OnQuit(stop)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// systray needs the main goroutine.
		t.Run()
		stop()
	}

	<-ctx.Done()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	default:
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	return nil
}

// openBrowser opens url with the platform's default handler.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.robohand/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".robohand", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

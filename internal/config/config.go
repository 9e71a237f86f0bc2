// Package config defines robohand's configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ayusman/robohand/internal/capture"
	"github.com/ayusman/robohand/internal/detector"
	"github.com/ayusman/robohand/internal/gesture"
	"github.com/ayusman/robohand/internal/session"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	Log LogConfig `koanf:"log"`

	// DataDir holds the SQLite database.
	DataDir string `koanf:"data_dir"`
	// WebDir is served at "/" when set.
	WebDir string `koanf:"web_dir"`
	// PluginDir is scanned for plugin manifests.
	PluginDir string `koanf:"plugin_dir"`

	Camera     CameraConfig     `koanf:"camera"`
	Detector   DetectorConfig   `koanf:"detector"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Motion     MotionConfig     `koanf:"motion"`
	Session    SessionConfig    `koanf:"session"`
	Plugin     PluginConfig     `koanf:"plugin"`
	Tray       TrayConfig       `koanf:"tray"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Pretty switches to human-readable console output.
	Pretty bool `koanf:"pretty"`
}

// CameraConfig controls local capture mode.
type CameraConfig struct {
	Enabled bool `koanf:"enabled"`
	Device  int  `koanf:"device"`
	FPS     int  `koanf:"fps"`
	Width   int  `koanf:"width"`
	Height  int  `koanf:"height"`
}

// DetectorConfig tunes the MediaPipe helper.
type DetectorConfig struct {
	MinConfidence         float64 `koanf:"min_confidence"`
	MinTrackingConfidence float64 `koanf:"min_tracking_confidence"`
}

// ClassifierConfig holds the horizontal deadbands.
type ClassifierConfig struct {
	PeaceDeadband float64 `koanf:"peace_deadband"`
	PointDeadband float64 `koanf:"point_deadband"`
}

// MotionConfig selects and tunes the motion tracker.
type MotionConfig struct {
	// Strategy is circular, lateral or off.
	Strategy         string  `koanf:"strategy"`
	Capacity         int     `koanf:"capacity"`
	MinPoints        int     `koanf:"min_points"`
	SweepThreshold   float64 `koanf:"sweep_threshold"`
	LateralThreshold float64 `koanf:"lateral_threshold"`
	FistGate         bool    `koanf:"fist_gate"`
	// Landmark is the tracked landmark index (8 is the index fingertip).
	Landmark int `koanf:"landmark"`
}

// SessionConfig holds the state machine settings.
type SessionConfig struct {
	IdleTimeout time.Duration `koanf:"idle_timeout"`
}

// PluginConfig controls plugin execution.
type PluginConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	QueueSize int           `koanf:"queue_size"`
}

// TrayConfig controls the system tray icon.
type TrayConfig struct {
	Enabled bool `koanf:"enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	motion := gesture.DefaultMotionConfig()
	det := detector.DefaultConfig()

	return &Config{
		Addr: ":8080",
		Log: LogConfig{
			Level: "info",
		},
		DataDir:   "data",
		PluginDir: "plugins",
		Camera: CameraConfig{
			Device: 0,
			FPS:    15,
			Width:  640,
			Height: 480,
		},
		Detector: DetectorConfig{
			MinConfidence:         det.MinConfidence,
			MinTrackingConfidence: det.MinTrackingConf,
		},
		Classifier: ClassifierConfig{
			PeaceDeadband: gesture.DefaultPeaceDeadband,
			PointDeadband: gesture.DefaultPointDeadband,
		},
		Motion: MotionConfig{
			Strategy:         motion.Strategy,
			Capacity:         motion.Capacity,
			MinPoints:        motion.MinPoints,
			SweepThreshold:   motion.SweepThreshold,
			LateralThreshold: motion.LateralThreshold,
			FistGate:         motion.FistGate,
			Landmark:         motion.Landmark,
		},
		Session: SessionConfig{
			IdleTimeout: session.DefaultIdleTimeout,
		},
		Plugin: PluginConfig{
			Timeout:   5 * time.Second,
			QueueSize: 64,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.Camera.FPS <= 0:
		return fmt.Errorf("%w: camera.fps must be positive", ErrInvalidConfig)
	case c.Session.IdleTimeout <= 0:
		return fmt.Errorf("%w: session.idle_timeout must be positive", ErrInvalidConfig)
	case c.Plugin.Timeout <= 0:
		return fmt.Errorf("%w: plugin.timeout must be positive", ErrInvalidConfig)
	case c.Plugin.QueueSize <= 0:
		return fmt.Errorf("%w: plugin.queue_size must be positive", ErrInvalidConfig)
	case c.Motion.Capacity <= 0:
		return fmt.Errorf("%w: motion.capacity must be positive", ErrInvalidConfig)
	case c.Motion.MinPoints <= 0 || c.Motion.MinPoints > c.Motion.Capacity:
		return fmt.Errorf("%w: motion.min_points must be in [1, motion.capacity]", ErrInvalidConfig)
	case c.Motion.Landmark < 0 || c.Motion.Landmark >= detector.NumLandmarks:
		return fmt.Errorf("%w: motion.landmark must be a landmark index", ErrInvalidConfig)
	}

	switch c.Motion.Strategy {
	case gesture.StrategyCircular, gesture.StrategyLateral, gesture.StrategyOff:
	default:
		return fmt.Errorf("%w: unknown motion.strategy %q", ErrInvalidConfig, c.Motion.Strategy)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// DBPath returns the SQLite database file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "robohand.db")
}

// SessionConfig converts the settings used by each session.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		IdleTimeout: c.Session.IdleTimeout,
		Classifier: gesture.ClassifierConfig{
			PeaceDeadband: c.Classifier.PeaceDeadband,
			PointDeadband: c.Classifier.PointDeadband,
		},
		Motion: gesture.MotionConfig{
			Strategy:         c.Motion.Strategy,
			Capacity:         c.Motion.Capacity,
			MinPoints:        c.Motion.MinPoints,
			SweepThreshold:   c.Motion.SweepThreshold,
			LateralThreshold: c.Motion.LateralThreshold,
			FistGate:         c.Motion.FistGate,
			Landmark:         c.Motion.Landmark,
		},
	}
}

// DetectorConfig converts the MediaPipe settings.
func (c *Config) DetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.MinConfidence = c.Detector.MinConfidence
	cfg.MinTrackingConf = c.Detector.MinTrackingConfidence
	return cfg
}

// CaptureConfig converts the camera settings.
func (c *Config) CaptureConfig() capture.Config {
	return capture.Config{
		Device: c.Camera.Device,
		FPS:    c.Camera.FPS,
		Width:  c.Camera.Width,
		Height: c.Camera.Height,
	}
}

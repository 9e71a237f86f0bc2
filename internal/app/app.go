// Package app runs robohand's local capture mode and the side effects of
// session outputs.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/capture"
	"github.com/ayusman/robohand/internal/detector"
	"github.com/ayusman/robohand/internal/logging"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/session"
)

// SourceCamera tags sessions fed by the local camera.
const SourceCamera = metrics.SourceCamera

// Config holds configuration options for the application.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	// DetectorConfig is used for the MediaPipe detector when Detector is nil.
	DetectorConfig detector.Config
	Session        session.Config
	Dispatcher     *Dispatcher
	Metrics        *metrics.Metrics
	Log            zerolog.Logger
}

// App reads camera frames, detects hands and runs them through one session.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	session  *session.Session
	log      zerolog.Logger
	frameLog zerolog.Logger

	enabled bool
	last    session.Output
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an App. Without a Detector it tries MediaPipe and falls back
// to a mock detector that never sees a hand.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}

	log := logging.Component(config.Log, "app")

	sess, err := session.New(config.Session, session.WithLogger(log))
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		session:  sess,
		log:      log,
		frameLog: logging.Sampled(log),
		enabled:  true,
	}
	a.last = session.Output{SessionID: sess.ID(), Status: sess.State(), Command: session.Waiting}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig, log); err == nil {
			a.detector = mp
			log.Info().Msg("using MediaPipe hand detection")
		} else {
			log.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
			a.detector = detector.NewMockDetector()
		}
	}

	return a, nil
}

// SetEnabled pauses or resumes frame processing without closing the camera.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Running reports whether the capture loop is started.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Last returns the most recent output.
func (a *App) Last() session.Output {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// SessionID returns the id of the capture session.
func (a *App) SessionID() string {
	return a.session.ID()
}

// Start opens the camera and begins the capture loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	if a.config.Dispatcher != nil {
		a.config.Dispatcher.Open(a.session.ID(), SourceCamera, time.Now())
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.Info().Int("fps", a.camera.FPS()).Str("session", a.session.ID()).Msg("capture started")
	return nil
}

// Stop halts the capture loop and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		a.log.Error().Err(err).Msg("error closing camera")
	}
	if err := a.detector.Close(); err != nil {
		a.log.Error().Err(err).Msg("error closing detector")
	}
	if a.config.Dispatcher != nil {
		a.config.Dispatcher.End(a.session.ID(), time.Now())
	}

	a.log.Info().Msg("capture stopped")
}

package app

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/robohand/internal/detector"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/session"
)

// runPipeline reads one frame per tick until stopCh closes.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 15
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.frameLog.Warn().Err(err).Msg("error reading frame")
				continue
			}

			if _, err := a.processFrame(frame, now); err != nil {
				a.frameLog.Warn().Err(err).Msg("error detecting hands")
			}
			frame.Close()
		}
	}
}

// processFrame detects the primary hand in frame and advances the session.
// A detector error skips the frame without touching the session.
func (a *App) processFrame(frame *gocv.Mat, now time.Time) (session.Output, error) {
	start := time.Now()

	hands, err := a.detector.Detect(frame)
	if err != nil {
		return session.Output{}, err
	}

	out := a.session.Process(detector.Primary(hands), now)
	a.config.Metrics.FrameProcessed(metrics.SourceCamera, time.Since(start))

	a.mu.Lock()
	a.last = out
	a.mu.Unlock()

	if a.config.Dispatcher != nil {
		a.config.Dispatcher.Dispatch(out)
	}
	if out.Event != session.EventNone {
		a.log.Info().
			Str("event", out.Event.String()).
			Str("command", out.Command).
			Str("rule", out.Rule).
			Msg("session event")
	}

	return out, nil
}

package gesture

import (
	"fmt"
	"time"

	"github.com/ayusman/robohand/internal/detector"
)

// Motion strategies.
const (
	StrategyCircular = "circular"
	StrategyLateral  = "lateral"
	StrategyOff      = "off"
)

// MotionTracker derives continuous-motion commands from a stream of frames.
// Implementations are not safe for concurrent use.
type MotionTracker interface {
	// Update feeds one frame. A nil hand means no hand was detected and
	// resets accumulated state.
	Update(hand *detector.HandLandmarks, now time.Time) (Command, bool)
	// Reset drops all accumulated state.
	Reset()
}

// Tracer is implemented by trackers that can tell when a hand is partway
// through a motion gesture.
type Tracer interface {
	Tracing() bool
}

// MotionConfig selects and tunes the motion tracker.
type MotionConfig struct {
	Strategy         string
	Capacity         int
	MinPoints        int
	SweepThreshold   float64
	LateralThreshold float64
	FistGate         bool
	Landmark         int
}

// DefaultMotionConfig returns the circular tracker settings.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Strategy:         StrategyCircular,
		Capacity:         DefaultBufferCapacity,
		MinPoints:        DefaultMinPoints,
		SweepThreshold:   DefaultSweepThreshold,
		LateralThreshold: DefaultLateralThreshold,
		FistGate:         true,
		Landmark:         detector.IndexTip,
	}
}

// NewTracker builds the tracker named by cfg.Strategy. Only one strategy is
// ever active; StrategyOff yields a tracker that never emits.
func NewTracker(cfg MotionConfig) (MotionTracker, error) {
	switch cfg.Strategy {
	case "", StrategyCircular:
		return NewCircularTracker(CircularConfig{
			Capacity:  cfg.Capacity,
			MinPoints: cfg.MinPoints,
			Threshold: cfg.SweepThreshold,
			FistGate:  cfg.FistGate,
			Landmark:  cfg.Landmark,
		}), nil
	case StrategyLateral:
		return NewLateralTracker(cfg.LateralThreshold), nil
	case StrategyOff:
		return noopTracker{}, nil
	default:
		return nil, fmt.Errorf("unknown motion strategy %q", cfg.Strategy)
	}
}

type noopTracker struct{}

func (noopTracker) Update(*detector.HandLandmarks, time.Time) (Command, bool) { return None, false }
func (noopTracker) Reset()                                                    {}

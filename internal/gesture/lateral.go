package gesture

import (
	"time"

	"github.com/ayusman/robohand/internal/detector"
)

// DefaultLateralThreshold is the per-frame wrist displacement that counts as a sweep.
const DefaultLateralThreshold = 0.08

// LateralTracker detects a sideways sweep of an open palm from the change in
// wrist X between consecutive frames. It is jitter-prone and kept as an
// alternative to CircularTracker.
type LateralTracker struct {
	threshold float64
	prevX     float64
	hasPrev   bool
}

// NewLateralTracker creates a lateral tracker. A non-positive threshold uses
// DefaultLateralThreshold.
func NewLateralTracker(threshold float64) *LateralTracker {
	if threshold <= 0 {
		threshold = DefaultLateralThreshold
	}
	return &LateralTracker{threshold: threshold}
}

// Update implements MotionTracker.
func (t *LateralTracker) Update(hand *detector.HandLandmarks, _ time.Time) (Command, bool) {
	if hand == nil {
		t.Reset()
		return None, false
	}

	x := hand.Points[detector.Wrist].X
	delta, ok := x-t.prevX, t.hasPrev
	t.prevX, t.hasPrev = x, true

	if !ok || !ReadFingers(hand).OpenPalm() {
		return None, false
	}
	switch {
	case delta > t.threshold:
		return Rotate360Right, true
	case delta < -t.threshold:
		return Rotate360Left, true
	default:
		return None, false
	}
}

// Reset implements MotionTracker.
func (t *LateralTracker) Reset() {
	t.prevX, t.hasPrev = 0, false
}

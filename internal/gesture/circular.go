package gesture

import (
	"math"
	"time"

	"github.com/ayusman/robohand/internal/detector"
)

const (
	// DefaultMinPoints is the buffer length required before a sweep is measured.
	DefaultMinPoints = 20
	// DefaultSweepThreshold is the swept angle, in radians, that counts as a full turn.
	DefaultSweepThreshold = 5.5
	// TracingSpan is the path extent, in normalized units, above which a
	// buffered path counts as a circle in progress rather than a still hand.
	TracingSpan = 0.05
)

// CircularConfig tunes a CircularTracker. Zero values use the defaults;
// Landmark zero means the wrist.
type CircularConfig struct {
	Capacity  int
	MinPoints int
	Threshold float64
	FistGate  bool
	Landmark  int
}

// CircularTracker detects a full circle traced by one landmark. It emits
// Rotate360Left for a positive swept angle and Rotate360Right for a negative
// one, then clears its buffer so each circle fires once.
type CircularTracker struct {
	buf       *Buffer
	minPoints int
	threshold float64
	fistGate  bool
	landmark  int
}

// NewCircularTracker creates a circular-path tracker.
func NewCircularTracker(cfg CircularConfig) *CircularTracker {
	t := &CircularTracker{
		buf:       NewBuffer(cfg.Capacity),
		minPoints: cfg.MinPoints,
		threshold: cfg.Threshold,
		fistGate:  cfg.FistGate,
		landmark:  cfg.Landmark,
	}
	if t.minPoints <= 0 {
		t.minPoints = DefaultMinPoints
	}
	if t.minPoints > t.buf.Cap() {
		t.minPoints = t.buf.Cap()
	}
	if t.threshold <= 0 {
		t.threshold = DefaultSweepThreshold
	}
	if t.landmark < 0 || t.landmark >= detector.NumLandmarks {
		t.landmark = detector.IndexTip
	}
	return t
}

// Update implements MotionTracker.
func (t *CircularTracker) Update(hand *detector.HandLandmarks, now time.Time) (Command, bool) {
	if hand == nil {
		t.buf.Clear()
		return None, false
	}
	if t.fistGate && !ReadFingers(hand).FourFolded() {
		t.buf.Clear()
		return None, false
	}

	p := hand.Points[t.landmark]
	t.buf.Push(PathPoint{X: p.X, Y: p.Y, Timestamp: now.UnixMilli()})

	if t.buf.Len() < t.minPoints {
		return None, false
	}

	swept := SweptAngle(t.buf.Points())
	if math.Abs(swept) <= t.threshold {
		return None, false
	}

	t.buf.Clear()
	if swept > 0 {
		return Rotate360Left, true
	}
	return Rotate360Right, true
}

// Reset implements MotionTracker.
func (t *CircularTracker) Reset() { t.buf.Clear() }

// Tracing reports whether the buffered path has moved further than
// TracingSpan along either axis.
func (t *CircularTracker) Tracing() bool {
	points := t.buf.Points()
	if len(points) < 2 {
		return false
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return maxX-minX > TracingSpan || maxY-minY > TracingSpan
}

// Len returns the number of buffered points.
func (t *CircularTracker) Len() int { return t.buf.Len() }

// SweptAngle returns the signed angle, in radians, swept by the path around
// its centroid. Each step is normalized into (-π, π].
func SweptAngle(points []PathPoint) float64 {
	if len(points) < 2 {
		return 0
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(points))
	cy /= float64(len(points))

	var total float64
	prev := math.Atan2(points[0].Y-cy, points[0].X-cx)
	for _, p := range points[1:] {
		a := math.Atan2(p.Y-cy, p.X-cx)
		total += normalizeAngle(a - prev)
		prev = a
	}
	return total
}

// normalizeAngle maps d into (-π, π].
func normalizeAngle(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

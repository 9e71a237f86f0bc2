// Package testdata provides landmark frame fixtures shared by the end-to-end
// tests and local demos.
package testdata

import (
	"math"

	"github.com/ayusman/robohand/internal/detector"
)

// Pose returns the named static pose, or false if the name is unknown.
// Names match the classifier rules: open-palm, four-fingers, thumb-down,
// peace-left, peace-right, point-left, point-right and fist.
func Pose(name string) (detector.HandLandmarks, bool) {
	switch name {
	case "open-palm":
		return detector.OpenPalmLandmarks(detector.HandRight), true
	case "four-fingers":
		return detector.FourFingersLandmarks(), true
	case "thumb-down":
		return detector.ThumbsDownLandmarks(), true
	case "peace-left":
		return detector.PeaceLandmarks(-0.2), true
	case "peace-right":
		return detector.PeaceLandmarks(0.2), true
	case "point-left":
		return detector.PointingLandmarks(-0.25), true
	case "point-right":
		return detector.PointingLandmarks(0.25), true
	case "fist":
		return detector.FistLandmarks(), true
	}
	return detector.HandLandmarks{}, false
}

// Frame renders a pose as a wire frame.
func Frame(h detector.HandLandmarks) detector.Frame {
	return detector.FrameFromHand(&h)
}

// FistCircle returns n fists whose index fingertip walks a circle of the given
// radius around (0.5, 0.5), one step of 2π/steps per frame. Positive steps
// trace increasing image-space angle; negative steps trace the opposite way.
func FistCircle(n, steps int, radius float64) []detector.HandLandmarks {
	fist := detector.FistLandmarks()
	tip := fist.Points[detector.IndexTip]

	out := make([]detector.HandLandmarks, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := 0.5 + radius*math.Cos(a)
		y := 0.5 + radius*math.Sin(a)
		out = append(out, detector.Translate(fist, x-tip.X, y-tip.Y))
	}
	return out
}

// PalmSweep returns n open palms whose wrist moves horizontally by dx per
// frame starting at x0.
func PalmSweep(n int, x0, dx float64) []detector.HandLandmarks {
	palm := detector.OpenPalmLandmarks(detector.HandRight)
	wrist := palm.Points[detector.Wrist]

	out := make([]detector.HandLandmarks, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, detector.Translate(palm, x0+dx*float64(i)-wrist.X, 0))
	}
	return out
}

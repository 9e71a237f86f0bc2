package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Thumb describes the vertical state of the thumb in a synthetic Pose.
type Thumb int

const (
	// ThumbTucked puts the thumb tip level with its IP joint (neither up nor down).
	ThumbTucked Thumb = iota
	// ThumbUp puts the thumb tip above its IP joint.
	ThumbUp
	// ThumbDown puts the thumb tip below its IP joint.
	ThumbDown
)

// Pose describes a synthetic hand used by tests and the demo fixtures.
// Extended fingers point up; folded fingers curl their tip below the PIP joint.
type Pose struct {
	Handedness Handedness
	Thumb      Thumb
	Index      bool
	Middle     bool
	Ring       bool
	Pinky      bool

	// Lean is the horizontal offset of the extended index and middle
	// fingertips from the wrist.
	Lean float64

	// Wrist positions the whole hand. Zero means (0.5, 0.8).
	Wrist Point3D
}

// fingerBase holds the MCP x offset from the wrist for index, middle, ring, pinky.
var fingerBase = [4]float64{0.05, 0.0, -0.05, -0.10}

// Landmarks renders the pose as a 21-point landmark set.
func (p Pose) Landmarks() HandLandmarks {
	wrist := p.Wrist
	if wrist == (Point3D{}) {
		wrist = Point3D{X: 0.5, Y: 0.8}
	}

	lm := HandLandmarks{
		Handedness: p.Handedness,
		Score:      0.95,
	}
	lm.Points[Wrist] = wrist

	// Thumb chain sits to the side of the palm.
	lm.Points[ThumbCMC] = Point3D{X: wrist.X + 0.06, Y: wrist.Y - 0.04}
	lm.Points[ThumbMCP] = Point3D{X: wrist.X + 0.10, Y: wrist.Y - 0.10}
	lm.Points[ThumbIP] = Point3D{X: wrist.X + 0.12, Y: wrist.Y - 0.14}
	switch p.Thumb {
	case ThumbUp:
		lm.Points[ThumbTip] = Point3D{X: wrist.X + 0.13, Y: wrist.Y - 0.22}
	case ThumbDown:
		lm.Points[ThumbTip] = Point3D{X: wrist.X + 0.11, Y: wrist.Y - 0.06}
	default:
		lm.Points[ThumbTip] = Point3D{X: wrist.X + 0.08, Y: wrist.Y - 0.14}
	}

	extended := [4]bool{p.Index, p.Middle, p.Ring, p.Pinky}
	spread := [4]float64{p.Lean, p.Lean, -0.03, -0.06}

	for f := 0; f < 4; f++ {
		mcp := IndexMCP + f*4
		baseX := wrist.X + fingerBase[f]
		baseY := wrist.Y - 0.15

		lm.Points[mcp] = Point3D{X: baseX, Y: baseY}
		if extended[f] {
			tipX := wrist.X + spread[f]
			if f >= 2 {
				tipX = baseX + spread[f]
			}
			lm.Points[mcp+1] = Point3D{X: baseX + (tipX-baseX)*0.4, Y: baseY - 0.10}
			lm.Points[mcp+2] = Point3D{X: baseX + (tipX-baseX)*0.7, Y: baseY - 0.18}
			lm.Points[mcp+3] = Point3D{X: tipX, Y: baseY - 0.25}
		} else {
			lm.Points[mcp+1] = Point3D{X: baseX, Y: baseY - 0.04, Z: -0.03}
			lm.Points[mcp+2] = Point3D{X: baseX, Y: baseY, Z: -0.04}
			lm.Points[mcp+3] = Point3D{X: baseX, Y: baseY + 0.02, Z: -0.02}
		}
	}

	return lm
}

// Translate returns a copy of the hand shifted by (dx, dy).
func Translate(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}

// OpenPalmLandmarks returns an open hand with all five fingers extended.
func OpenPalmLandmarks(hand Handedness) HandLandmarks {
	return Pose{Handedness: hand, Thumb: ThumbUp, Index: true, Middle: true, Ring: true, Pinky: true}.Landmarks()
}

// FourFingersLandmarks returns a flat hand with the thumb tucked.
func FourFingersLandmarks() HandLandmarks {
	return Pose{Handedness: HandRight, Index: true, Middle: true, Ring: true, Pinky: true}.Landmarks()
}

// ThumbsDownLandmarks returns a fist with the thumb pointing down.
func ThumbsDownLandmarks() HandLandmarks {
	return Pose{Handedness: HandRight, Thumb: ThumbDown}.Landmarks()
}

// FistLandmarks returns a closed fist with the thumb tucked across the fingers.
func FistLandmarks() HandLandmarks {
	return Pose{Handedness: HandRight}.Landmarks()
}

// PeaceLandmarks returns index and middle extended, leaning by lean from the wrist.
func PeaceLandmarks(lean float64) HandLandmarks {
	return Pose{Handedness: HandRight, Index: true, Middle: true, Lean: lean}.Landmarks()
}

// PointingLandmarks returns only the index extended, leaning by lean from the wrist.
func PointingLandmarks(lean float64) HandLandmarks {
	return Pose{Handedness: HandRight, Index: true, Lean: lean}.Landmarks()
}

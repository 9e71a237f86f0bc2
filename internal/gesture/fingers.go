package gesture

import "github.com/ayusman/robohand/internal/detector"

// Fingers holds the extension state of each finger for one frame.
type Fingers struct {
	ThumbUp   bool
	ThumbDown bool
	Index     bool
	Middle    bool
	Ring      bool
	Pinky     bool
}

// ReadFingers derives finger states. A finger is extended when its tip is
// above (smaller Y than) its PIP joint; the thumb compares its tip to its IP joint.
func ReadFingers(h *detector.HandLandmarks) Fingers {
	p := &h.Points
	return Fingers{
		ThumbUp:   p[detector.ThumbTip].Y < p[detector.ThumbIP].Y,
		ThumbDown: p[detector.ThumbTip].Y > p[detector.ThumbIP].Y,
		Index:     p[detector.IndexTip].Y < p[detector.IndexPIP].Y,
		Middle:    p[detector.MiddleTip].Y < p[detector.MiddlePIP].Y,
		Ring:      p[detector.RingTip].Y < p[detector.RingPIP].Y,
		Pinky:     p[detector.PinkyTip].Y < p[detector.PinkyPIP].Y,
	}
}

// FourUp reports whether index, middle, ring and pinky are all extended.
func (f Fingers) FourUp() bool {
	return f.Index && f.Middle && f.Ring && f.Pinky
}

// FourFolded reports whether index, middle, ring and pinky are all folded.
func (f Fingers) FourFolded() bool {
	return !f.Index && !f.Middle && !f.Ring && !f.Pinky
}

// OpenPalm reports whether all five fingers are extended.
func (f Fingers) OpenPalm() bool {
	return f.ThumbUp && f.FourUp()
}

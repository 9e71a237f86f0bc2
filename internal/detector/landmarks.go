// Package detector provides hand detection interfaces and the landmark data model
// consumed by the command classifier.
package detector

import (
	"errors"
	"math"
	"strings"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidLandmarks is returned when a landmark set is not a usable 21-point hand.
var ErrInvalidLandmarks = errors.New("invalid landmarks")

// Handedness identifies which physical hand produced a landmark set.
type Handedness string

const (
	// HandUnknown means the tracker did not report a usable label.
	HandUnknown Handedness = ""
	// HandLeft is a left hand.
	HandLeft Handedness = "Left"
	// HandRight is a right hand.
	HandRight Handedness = "Right"
)

// ParseHandedness maps a tracker label to a Handedness. Matching is
// case-insensitive and anything other than left/right is HandUnknown.
func ParseHandedness(label string) Handedness {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "left":
		return HandLeft
	case "right":
		return HandRight
	default:
		return HandUnknown
	}
}

// Known reports whether the handedness is Left or Right.
func (h Handedness) Known() bool {
	return h == HandLeft || h == HandRight
}

// Point3D represents a normalized landmark position.
// X and Y are roughly in [0,1] relative to the frame; Y grows downward.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point3D) finite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// Validate checks that every landmark coordinate is finite.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return ErrInvalidLandmarks
	}
	for _, p := range h.Points {
		if !p.finite() {
			return ErrInvalidLandmarks
		}
	}
	return nil
}

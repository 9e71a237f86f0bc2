package detector

import (
	"encoding/json"
	"fmt"
)

// Frame is the per-frame landmark message delivered by an external tracker,
// for example a browser running the hand landmarker and posting its results.
// An empty Landmarks slice means no hand was detected in that frame.
type Frame struct {
	Landmarks  []Point3D `json:"landmarks"`
	Handedness string    `json:"handedness,omitempty"`
	Score      float64   `json:"score,omitempty"`
}

// DecodeFrame parses a JSON frame. It returns a nil hand when the frame carries
// no landmarks.
func DecodeFrame(data []byte) (*HandLandmarks, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return f.Hand()
}

// Hand converts the frame into a HandLandmarks value.
func (f Frame) Hand() (*HandLandmarks, error) {
	if len(f.Landmarks) == 0 {
		return nil, nil
	}
	if len(f.Landmarks) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d points, want %d", ErrInvalidLandmarks, len(f.Landmarks), NumLandmarks)
	}

	hand := toHandLandmarks(f.Landmarks, f.Handedness, f.Score)
	if err := hand.Validate(); err != nil {
		return nil, err
	}
	return &hand, nil
}

// FrameFromHand builds the wire representation of a hand. A nil hand yields an
// empty frame.
func FrameFromHand(h *HandLandmarks) Frame {
	if h == nil {
		return Frame{}
	}
	return Frame{
		Landmarks:  append([]Point3D(nil), h.Points[:]...),
		Handedness: string(h.Handedness),
		Score:      h.Score,
	}
}

func toHandLandmarks(points []Point3D, label string, score float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: ParseHandedness(label),
		Score:      score,
	}
	for i := 0; i < NumLandmarks && i < len(points); i++ {
		lm.Points[i] = points[i]
	}
	return lm
}

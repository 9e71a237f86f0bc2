package detector

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseHandedness(t *testing.T) {
	tests := []struct {
		label string
		want  Handedness
	}{
		{"Right", HandRight},
		{"right", HandRight},
		{" LEFT ", HandLeft},
		{"", HandUnknown},
		{"both", HandUnknown},
	}
	for _, tt := range tests {
		if got := ParseHandedness(tt.label); got != tt.want {
			t.Errorf("ParseHandedness(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}

	if HandUnknown.Known() {
		t.Error("unknown handedness should not be Known")
	}
	if !HandLeft.Known() || !HandRight.Known() {
		t.Error("left and right should be Known")
	}
}

func TestHandLandmarks_Validate(t *testing.T) {
	t.Run("nil hand", func(t *testing.T) {
		var h *HandLandmarks
		if err := h.Validate(); !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})

	t.Run("finite fixture", func(t *testing.T) {
		h := OpenPalmLandmarks(HandRight)
		if err := h.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("NaN coordinate", func(t *testing.T) {
		h := FistLandmarks()
		h.Points[IndexTip].Y = math.NaN()
		if err := h.Validate(); !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})

	t.Run("infinite coordinate", func(t *testing.T) {
		h := FistLandmarks()
		h.Points[Wrist].X = math.Inf(1)
		if err := h.Validate(); !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})
}

func TestDecodeFrame(t *testing.T) {
	t.Run("empty landmarks means no hand", func(t *testing.T) {
		hand, err := DecodeFrame([]byte(`{"landmarks":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand != nil {
			t.Errorf("expected nil hand, got %+v", hand)
		}
	})

	t.Run("absent landmarks means no hand", func(t *testing.T) {
		hand, err := DecodeFrame([]byte(`{}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand != nil {
			t.Error("expected nil hand")
		}
	})

	t.Run("wrong point count", func(t *testing.T) {
		_, err := DecodeFrame([]byte(`{"landmarks":[{"x":0.1,"y":0.2}]}`))
		if !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "got 1 points") {
			t.Errorf("error should mention point count: %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeFrame([]byte(`{"landmarks":`))
		if err == nil {
			t.Fatal("expected error")
		}
		if errors.Is(err, ErrInvalidLandmarks) {
			t.Error("syntax error should not be reported as invalid landmarks")
		}
	})

	t.Run("round trip through FrameFromHand", func(t *testing.T) {
		src := PeaceLandmarks(0.2)
		src.Handedness = HandLeft

		data, err := json.Marshal(FrameFromHand(&src))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		hand, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if hand.Handedness != HandLeft {
			t.Errorf("handedness = %q, want Left", hand.Handedness)
		}
		if hand.Points != src.Points {
			t.Error("points changed across the wire")
		}
	})

	t.Run("unknown handedness label", func(t *testing.T) {
		f := FrameFromHand(ptr(FistLandmarks()))
		f.Handedness = "ambidextrous"
		hand, err := f.Hand()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand.Handedness != HandUnknown {
			t.Errorf("handedness = %q, want unknown", hand.Handedness)
		}
	})
}

func TestFrameFromHand_Nil(t *testing.T) {
	f := FrameFromHand(nil)
	if len(f.Landmarks) != 0 {
		t.Errorf("expected empty frame, got %d landmarks", len(f.Landmarks))
	}
}

func TestPrimary(t *testing.T) {
	if Primary(nil) != nil {
		t.Error("expected nil for no hands")
	}

	hands := []HandLandmarks{FistLandmarks(), OpenPalmLandmarks(HandLeft)}
	p := Primary(hands)
	if p == nil || p.Points != hands[0].Points {
		t.Error("expected first hand")
	}
}

func TestParseServiceResponse(t *testing.T) {
	t.Run("skips incomplete hands", func(t *testing.T) {
		full := FrameFromHand(ptr(FistLandmarks()))
		line, _ := json.Marshal(map[string]any{
			"hands": []map[string]any{
				{"points": full.Landmarks, "handedness": "Right", "score": 0.9},
				{"points": full.Landmarks[:5], "handedness": "Left", "score": 0.8},
			},
		})

		hands, err := parseServiceResponse(line)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != HandRight {
			t.Errorf("handedness = %q", hands[0].Handedness)
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := parseServiceResponse([]byte(`{"error":"model not loaded"}`))
		if err == nil || !strings.Contains(err.Error(), "model not loaded") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseServiceResponse([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})
}

func TestPoseFixtures(t *testing.T) {
	extended := func(h HandLandmarks, tip, pip int) bool {
		return h.Points[tip].Y < h.Points[pip].Y
	}

	t.Run("open palm", func(t *testing.T) {
		h := OpenPalmLandmarks(HandRight)
		for _, f := range [][2]int{{IndexTip, IndexPIP}, {MiddleTip, MiddlePIP}, {RingTip, RingPIP}, {PinkyTip, PinkyPIP}, {ThumbTip, ThumbIP}} {
			if !extended(h, f[0], f[1]) {
				t.Errorf("landmark %d should be extended", f[0])
			}
		}
	})

	t.Run("fist", func(t *testing.T) {
		h := FistLandmarks()
		for _, f := range [][2]int{{IndexTip, IndexPIP}, {MiddleTip, MiddlePIP}, {RingTip, RingPIP}, {PinkyTip, PinkyPIP}} {
			if extended(h, f[0], f[1]) {
				t.Errorf("landmark %d should be folded", f[0])
			}
		}
		if h.Points[ThumbTip].Y != h.Points[ThumbIP].Y {
			t.Error("tucked thumb should be level with its IP joint")
		}
	})

	t.Run("thumbs down", func(t *testing.T) {
		h := ThumbsDownLandmarks()
		if h.Points[ThumbTip].Y <= h.Points[ThumbIP].Y {
			t.Error("thumb tip should be below IP joint")
		}
	})

	t.Run("lean offsets", func(t *testing.T) {
		p := PeaceLandmarks(0.2)
		if d := p.Points[MiddleTip].X - p.Points[Wrist].X; math.Abs(d-0.2) > 1e-9 {
			t.Errorf("middle tip offset = %f, want 0.2", d)
		}
		pt := PointingLandmarks(-0.3)
		if d := pt.Points[IndexTip].X - pt.Points[Wrist].X; math.Abs(d+0.3) > 1e-9 {
			t.Errorf("index tip offset = %f, want -0.3", d)
		}
	})

	t.Run("translate", func(t *testing.T) {
		h := Translate(FistLandmarks(), 0.1, -0.05)
		base := FistLandmarks()
		if math.Abs(h.Points[Wrist].X-base.Points[Wrist].X-0.1) > 1e-9 {
			t.Error("wrist X not shifted")
		}
		if math.Abs(h.Points[IndexTip].Y-base.Points[IndexTip].Y+0.05) > 1e-9 {
			t.Error("index tip Y not shifted")
		}
	})
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()
	m.SetHands([]HandLandmarks{FistLandmarks()})

	hands, err := m.Detect(nil)
	if err != nil || len(hands) != 1 {
		t.Fatalf("Detect() = %d hands, %v", len(hands), err)
	}

	m.SetError(errors.New("boom"))
	if _, err := m.Detect(nil); err == nil {
		t.Error("expected configured error")
	}
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}
}

func ptr(h HandLandmarks) *HandLandmarks { return &h }

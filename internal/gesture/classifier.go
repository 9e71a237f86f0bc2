package gesture

import "github.com/ayusman/robohand/internal/detector"

const (
	// DefaultPeaceDeadband is the horizontal dead zone for the peace sign.
	DefaultPeaceDeadband = 0.10
	// DefaultPointDeadband is the horizontal dead zone for a pointing index.
	DefaultPointDeadband = 0.15
)

// Rule names, in evaluation order.
const (
	RuleOpenPalm    = "open-palm"
	RuleFourFingers = "four-fingers"
	RuleThumbDown   = "thumb-down"
	RulePeace       = "peace"
	RulePoint       = "point"
	// RuleMotion marks commands emitted by a MotionTracker.
	RuleMotion = "motion"
)

// ClassifierConfig tunes the deadbands. Non-positive values use the defaults.
type ClassifierConfig struct {
	PeaceDeadband float64
	PointDeadband float64
}

// rule is one step of the ordered classification. A rule reports matched=false
// to let the next rule try; matched with None stops evaluation without a command.
type rule struct {
	name  string
	apply func(h *detector.HandLandmarks, f Fingers) (cmd Command, matched bool)
}

// Classifier maps a single frame's landmarks to a command using a fixed,
// ordered list of rules. The first matching rule wins.
type Classifier struct {
	peace float64
	point float64
	rules []rule
}

// NewClassifier creates a classifier.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	c := &Classifier{
		peace: cfg.PeaceDeadband,
		point: cfg.PointDeadband,
	}
	if c.peace <= 0 {
		c.peace = DefaultPeaceDeadband
	}
	if c.point <= 0 {
		c.point = DefaultPointDeadband
	}

	c.rules = []rule{
		{RuleOpenPalm, c.openPalm},
		{RuleFourFingers, fourFingers},
		{RuleThumbDown, thumbDown},
		{RulePeace, c.peaceSign},
		{RulePoint, c.pointing},
	}
	return c
}

// Rules returns the rule names in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.name
	}
	return names
}

// Classify evaluates the rules against one hand. A nil hand yields KindNoHand.
func (c *Classifier) Classify(h *detector.HandLandmarks) Result {
	if h == nil {
		return NoHand()
	}

	f := ReadFingers(h)
	for _, r := range c.rules {
		cmd, matched := r.apply(h, f)
		if !matched {
			continue
		}
		if cmd == None {
			// Inside a deadband.
			return Unrecognized()
		}
		return Recognized(cmd, r.name)
	}
	return Unrecognized()
}

// openPalm mirrors handedness: the camera image is a selfie view.
func (c *Classifier) openPalm(h *detector.HandLandmarks, f Fingers) (Command, bool) {
	if !f.OpenPalm() {
		return None, false
	}
	switch h.Handedness {
	case detector.HandRight:
		return Rotate360Left, true
	case detector.HandLeft:
		return Rotate360Right, true
	default:
		return Stop, true
	}
}

func fourFingers(_ *detector.HandLandmarks, f Fingers) (Command, bool) {
	if !f.FourUp() {
		return None, false
	}
	return Stop, true
}

func thumbDown(_ *detector.HandLandmarks, f Fingers) (Command, bool) {
	if !f.ThumbDown || !f.FourFolded() {
		return None, false
	}
	return Advance, true
}

func (c *Classifier) peaceSign(h *detector.HandLandmarks, f Fingers) (Command, bool) {
	if !f.Index || !f.Middle || f.Ring || f.Pinky {
		return None, false
	}
	offset := h.Points[detector.MiddleTip].X - h.Points[detector.Wrist].X
	return lean(offset, c.peace, Rotate90Right, Rotate90Left), true
}

func (c *Classifier) pointing(h *detector.HandLandmarks, f Fingers) (Command, bool) {
	if !f.Index || f.Middle || f.Ring || f.Pinky {
		return None, false
	}
	offset := h.Points[detector.IndexTip].X - h.Points[detector.Wrist].X
	return lean(offset, c.point, TurnRight, TurnLeft), true
}

// lean picks right or left when offset leaves the deadband, None inside it.
func lean(offset, deadband float64, right, left Command) Command {
	switch {
	case offset > deadband:
		return right
	case offset < -deadband:
		return left
	default:
		return None
	}
}

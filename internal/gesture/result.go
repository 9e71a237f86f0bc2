package gesture

// Kind tags the variant held by a Result.
type Kind int

const (
	// KindNoHand means no landmark set was delivered for the frame.
	KindNoHand Kind = iota
	// KindUnrecognized means a hand was present but no rule matched.
	KindUnrecognized
	// KindRecognized means a rule matched and Command is set.
	KindRecognized
)

func (k Kind) String() string {
	switch k {
	case KindNoHand:
		return "no-hand"
	case KindUnrecognized:
		return "unrecognized"
	case KindRecognized:
		return "recognized"
	default:
		return "unknown"
	}
}

// Result is the classifier output for one frame.
type Result struct {
	Kind    Kind
	Command Command
	// Rule names the rule that produced Command.
	Rule string
}

// NoHand is the result for a frame without a hand.
func NoHand() Result { return Result{Kind: KindNoHand} }

// Unrecognized is the result for a hand that matched no rule.
func Unrecognized() Result { return Result{Kind: KindUnrecognized} }

// Recognized builds a result for a matched rule.
func Recognized(cmd Command, rule string) Result {
	return Result{Kind: KindRecognized, Command: cmd, Rule: rule}
}

// Ok reports whether the result carries a command.
func (r Result) Ok() bool {
	return r.Kind == KindRecognized && r.Command.Valid()
}

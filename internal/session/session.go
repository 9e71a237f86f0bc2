// Package session implements the per-frame command pipeline and the
// active/suspended state machine around it.
package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/detector"
	"github.com/ayusman/robohand/internal/gesture"
)

// DefaultIdleTimeout is how long a session stays active without a command.
const DefaultIdleTimeout = 5 * time.Second

// Waiting is the display command shown when no command is current.
const Waiting = "waiting"

// State is the session mode.
type State int

const (
	Active State = iota
	Suspended
)

func (s State) String() string {
	if s == Suspended {
		return "suspended"
	}
	return "active"
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Event reports what changed during a Process call.
type Event int

const (
	EventNone Event = iota
	// EventActivated: a command arrived while suspended.
	EventActivated
	// EventSuspended: the idle timeout elapsed.
	EventSuspended
	// EventChanged: an active session recognized a different command.
	EventChanged
	// EventRepeated: the current command was given again, either as another
	// completed motion or as a pose after a frame without one.
	EventRepeated
)

func (e Event) String() string {
	switch e {
	case EventActivated:
		return "activated"
	case EventSuspended:
		return "suspended"
	case EventChanged:
		return "changed"
	case EventRepeated:
		return "repeated"
	default:
		return "none"
	}
}

// Commands reports whether the event hands a command to the robot.
func (e Event) Commands() bool {
	return e == EventActivated || e == EventChanged || e == EventRepeated
}

// MarshalJSON encodes the event by name.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Config holds session settings.
type Config struct {
	IdleTimeout time.Duration
	Classifier  gesture.ClassifierConfig
	Motion      gesture.MotionConfig
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		IdleTimeout: DefaultIdleTimeout,
		Motion:      gesture.DefaultMotionConfig(),
	}
}

// Option customizes a Session.
type Option func(*Session)

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithTracker replaces the motion tracker built from the config.
func WithTracker(t gesture.MotionTracker) Option {
	return func(s *Session) { s.tracker = t }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Output is the per-frame presentation tuple.
type Output struct {
	SessionID string          `json:"session_id"`
	Status    State           `json:"status"`
	Command   string          `json:"command"`
	Highlight string          `json:"highlight,omitempty"`
	Gesture   gesture.Command `json:"gesture"`
	Rule      string          `json:"rule,omitempty"`
	Event     Event           `json:"event,omitempty"`
	At        time.Time       `json:"at"`

	// Result is the raw classification for the frame.
	Result gesture.Result `json:"-"`
}

// Session tracks one stream of frames. It is not safe for concurrent use:
// frames must be processed serially by a single caller.
type Session struct {
	id         string
	started    time.Time
	idle       time.Duration
	classifier *gesture.Classifier
	tracker    gesture.MotionTracker
	log        zerolog.Logger

	state    State
	lastSeen time.Time
	current  gesture.Command
	// held is true while consecutive frames keep recognizing a command.
	held bool
}

// New creates a session in the Active state.
func New(cfg Config, opts ...Option) (*Session, error) {
	s := &Session{
		id:         uuid.NewString(),
		started:    time.Now(),
		idle:       cfg.IdleTimeout,
		classifier: gesture.NewClassifier(cfg.Classifier),
		log:        zerolog.Nop(),
		state:      Active,
	}
	if s.idle <= 0 {
		s.idle = DefaultIdleTimeout
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tracker == nil {
		tracker, err := gesture.NewTracker(cfg.Motion)
		if err != nil {
			return nil, err
		}
		s.tracker = tracker
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.started }

// State returns the current mode.
func (s *Session) State() State { return s.state }

// Current returns the last recognized command, or None after a suspend.
func (s *Session) Current() gesture.Command { return s.current }

// Process runs one frame through the motion tracker and classifier and
// advances the state machine. hand is nil when no hand was detected.
func (s *Session) Process(hand *detector.HandLandmarks, now time.Time) Output {
	if s.lastSeen.IsZero() {
		s.lastSeen = now
	}

	var res gesture.Result
	if cmd, ok := s.tracker.Update(hand, now); ok {
		res = gesture.Recognized(cmd, gesture.RuleMotion)
	} else {
		res = s.classifier.Classify(hand)
		// A fist mid-circle can read as thumb-down for a frame.
		if res.Rule == gesture.RuleThumbDown && s.tracing() {
			res = gesture.Unrecognized()
		}
	}

	event := EventNone
	switch {
	case res.Ok():
		s.lastSeen = now
		switch {
		case s.state == Suspended:
			s.state = Active
			event = EventActivated
		case res.Command != s.current:
			event = EventChanged
		case res.Rule == gesture.RuleMotion || !s.held:
			event = EventRepeated
		}
		s.current = res.Command

	case s.state == Active && now.Sub(s.lastSeen) > s.idle:
		s.state = Suspended
		s.current = gesture.None
		s.tracker.Reset()
		event = EventSuspended
	}
	s.held = res.Ok()

	if event != EventNone {
		s.log.Debug().
			Str("session", s.id).
			Str("event", event.String()).
			Str("command", res.Command.String()).
			Msg("session transition")
	}

	return s.output(res, event, now)
}

func (s *Session) tracing() bool {
	t, ok := s.tracker.(gesture.Tracer)
	return ok && t.Tracing()
}

func (s *Session) output(res gesture.Result, event Event, now time.Time) Output {
	out := Output{
		SessionID: s.id,
		Status:    s.state,
		Command:   Waiting,
		Gesture:   gesture.None,
		Event:     event,
		At:        now,
		Result:    res,
	}
	if res.Ok() {
		out.Gesture = res.Command
		out.Rule = res.Rule
	}
	// The last command stays on display until the session suspends.
	if s.state == Active && s.current.Valid() {
		out.Command = s.current.String()
		out.Highlight = s.current.HighlightID()
	}
	return out
}

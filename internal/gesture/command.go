// Package gesture turns hand landmarks into robot commands: an ordered rule
// classifier for single-frame poses and motion trackers for continuous gestures.
package gesture

import (
	"encoding/json"
	"fmt"
)

// Command is one entry of the fixed robot-control vocabulary.
type Command int

const (
	// None means no command.
	None Command = iota
	Advance
	Stop
	TurnRight
	TurnLeft
	Rotate90Right
	Rotate90Left
	Rotate360Right
	Rotate360Left
)

type commandInfo struct {
	name      string
	label     string
	highlight string
}

var commandTable = [...]commandInfo{
	None:           {"none", "", ""},
	Advance:        {"advance", "Advance", "g-avanzar"},
	Stop:           {"stop", "Stop", "g-detener"},
	TurnRight:      {"turn-right", "Turn right", "g-vd"},
	TurnLeft:       {"turn-left", "Turn left", "g-vi"},
	Rotate90Right:  {"rotate-90-right", "Rotate 90° right", "g-90d"},
	Rotate90Left:   {"rotate-90-left", "Rotate 90° left", "g-90i"},
	Rotate360Right: {"rotate-360-right", "Rotate 360° right", "g-360d"},
	Rotate360Left:  {"rotate-360-left", "Rotate 360° left", "g-360i"},
}

// All returns the eight commands in catalog order.
func All() []Command {
	return []Command{
		Advance, Stop, TurnRight, TurnLeft,
		Rotate90Right, Rotate90Left, Rotate360Right, Rotate360Left,
	}
}

// Valid reports whether c is one of the eight commands.
func (c Command) Valid() bool {
	return c > None && int(c) < len(commandTable)
}

// String returns the canonical name, e.g. "turn-left".
func (c Command) String() string {
	if c < None || int(c) >= len(commandTable) {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandTable[c].name
}

// Label returns a human-readable label for display.
func (c Command) Label() string {
	if !c.Valid() {
		return ""
	}
	return commandTable[c].label
}

// HighlightID returns the id of the UI element that represents the command.
func (c Command) HighlightID() string {
	if !c.Valid() {
		return ""
	}
	return commandTable[c].highlight
}

// ParseCommand returns the command with the given canonical name.
func ParseCommand(name string) (Command, error) {
	for _, c := range All() {
		if commandTable[c].name == name {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown command %q", name)
}

// MarshalJSON encodes the command by its canonical name.
func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a canonical name. "none" and "" decode to None.
func (c *Command) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" || name == "none" {
		*c = None
		return nil
	}
	parsed, err := ParseCommand(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

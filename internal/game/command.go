package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is the movement order applied to every live human for one turn.
type Command int

const (
	// CommandNone means no input this frame; the turn does not advance.
	CommandNone Command = iota
	CommandUp
	CommandDown
	CommandLeft
	CommandRight
	// CommandAuto makes each human follow its escape path.
	CommandAuto
	// CommandWait keeps humans in place while zombies still move.
	CommandWait
)

func (c Command) String() string {
	switch c {
	case CommandUp:
		return "up"
	case CommandDown:
		return "down"
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandAuto:
		return "auto"
	case CommandWait:
		return "wait"
	default:
		return "none"
	}
}

// offset returns the step for a cardinal command.
func (c Command) offset() (Coord, bool) {
	switch c {
	case CommandUp:
		return Coord{X: 0, Y: -1}, true
	case CommandDown:
		return Coord{X: 0, Y: 1}, true
	case CommandLeft:
		return Coord{X: -1, Y: 0}, true
	case CommandRight:
		return Coord{X: 1, Y: 0}, true
	default:
		return Coord{}, false
	}
}

// ParseCommand converts a wire name into a Command. An empty string is CommandNone.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "", "none":
		return CommandNone, nil
	case "up":
		return CommandUp, nil
	case "down":
		return CommandDown, nil
	case "left":
		return CommandLeft, nil
	case "right":
		return CommandRight, nil
	case "auto":
		return CommandAuto, nil
	case "wait":
		return CommandWait, nil
	default:
		return CommandNone, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
	}
}

// MarshalJSON serializes Command as a string.
func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON deserializes Command from a string.
func (c *Command) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	cmd, err := ParseCommand(s)
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

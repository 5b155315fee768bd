package game

import "encoding/json"

// Outcome is the terminal state of a game, or OutcomeInProgress.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeHumansEscaped
	OutcomeHumansCaught
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHumansEscaped:
		return "humans_escaped"
	case OutcomeHumansCaught:
		return "humans_caught"
	default:
		return "in_progress"
	}
}

// Terminal reports whether no further turns can be processed.
func (o Outcome) Terminal() bool {
	return o != OutcomeInProgress
}

// MarshalJSON serializes Outcome as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON deserializes Outcome from a string.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "humans_escaped":
		*o = OutcomeHumansEscaped
	case "humans_caught":
		*o = OutcomeHumansCaught
	default:
		*o = OutcomeInProgress
	}
	return nil
}

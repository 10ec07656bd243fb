package engine

import "fmt"

// Action is the closed set of order actions. Buy/Sell work the long side of
// a position; Short/Cover work the short side.
type Action int

const (
	Buy Action = iota
	Sell
	Short
	Cover
)

var actionNames = [...]string{"Buy", "Sell", "Short", "Cover"}

func (a Action) String() string {
	if a < Buy || a > Cover {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps the wire form back to an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Opening reports whether the action opens or increases a position.
func (a Action) Opening() bool {
	return a == Buy || a == Short
}

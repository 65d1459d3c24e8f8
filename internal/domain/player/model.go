package player

import "fmt"

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions lists positions in squad display order.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// PositionFromCode maps the FPL element_type code (1..4) to a Position.
func PositionFromCode(code int) (Position, error) {
	if code < 1 || code > len(OrderedPositions) {
		return "", fmt.Errorf("invalid player position code: %d", code)
	}
	return OrderedPositions[code-1], nil
}

// Code is the inverse of PositionFromCode; unknown positions return 0.
func (p Position) Code() int {
	for i, pos := range OrderedPositions {
		if pos == p {
			return i + 1
		}
	}
	return 0
}

// Player is a selectable footballer in the FPL pool. Price is in tenths of a
// currency unit (52 means 5.2).
type Player struct {
	ID       int64
	TeamID   int64
	Name     string
	WebName  string
	Position Position
	Price    int64
	Status   string
}

// DisplayName prefers the short web name used on the FPL site.
func (p Player) DisplayName() string {
	if p.WebName != "" {
		return p.WebName
	}
	return p.Name
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" && p.WebName == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}

package fantasy

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

var (
	ErrInvalidSquadSize       = errors.New("invalid squad size")
	ErrExceededTeamLimit      = errors.New("max players from same team exceeded")
	ErrInvalidComposition     = errors.New("squad composition requirement not met")
	ErrInsufficientFormation  = errors.New("minimum formation requirement not met")
	ErrUnknownPlayerPosition  = errors.New("unknown player position")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
	ErrDuplicatePlayerInPool  = errors.New("duplicate player in pool")
	ErrInvalidTransferBound   = errors.New("invalid transfer bound")
	ErrInvalidBudget          = errors.New("invalid budget")
	ErrPlayerLookupFailure    = errors.New("player not found in pool")
	ErrNoFeasibleLineup       = errors.New("no feasible lineup")
	ErrNoFeasibleTransferPlan = errors.New("no feasible transfer plan")
)

// Rules stores squad and lineup validation parameters.
type Rules struct {
	SquadSize         int
	MaxPlayersPerTeam int
	// Composition is the exact number of players per position in a squad.
	Composition map[player.Position]int

	StartingSize int
	// StartingMin is the minimum number of starters per position.
	StartingMin map[player.Position]int
	// StartingGoalkeepers is the exact number of goalkeepers in the eleven.
	StartingGoalkeepers int
	BenchSize           int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		MaxPlayersPerTeam: 3,
		Composition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
		StartingSize: 11,
		StartingMin: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   3,
			player.PositionMidfielder: 2,
			player.PositionForward:    1,
		},
		StartingGoalkeepers: 1,
		BenchSize:           4,
	}
}

// ValidateSquad checks a full squad against size, composition and team rules.
func ValidateSquad(players []player.Player, rules Rules) error {
	if len(players) != rules.SquadSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(players))
	}

	teamCounter := make(map[int64]int)
	positionCounter := make(map[player.Position]int)
	playerSet := make(map[int64]struct{})

	for _, p := range players {
		if _, exists := playerSet[p.ID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicatePlayerInSquad, p.ID)
		}
		playerSet[p.ID] = struct{}{}

		if _, ok := player.AllPositions[p.Position]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, p.Position)
		}

		teamCounter[p.TeamID]++
		if teamCounter[p.TeamID] > rules.MaxPlayersPerTeam {
			return fmt.Errorf("%w: team=%d max=%d", ErrExceededTeamLimit, p.TeamID, rules.MaxPlayersPerTeam)
		}

		positionCounter[p.Position]++
	}

	for _, pos := range player.OrderedPositions {
		if want := rules.Composition[pos]; positionCounter[pos] != want {
			return fmt.Errorf("%w: pos=%s expected=%d current=%d", ErrInvalidComposition, pos, want, positionCounter[pos])
		}
	}

	return nil
}

// ValidateStartingEleven checks starters against size and formation rules.
func ValidateStartingEleven(starters []player.Player, rules Rules) error {
	if len(starters) != rules.StartingSize {
		return fmt.Errorf("%w: expected %d starters, got %d", ErrInsufficientFormation, rules.StartingSize, len(starters))
	}

	positionCounter := make(map[player.Position]int)
	for _, p := range starters {
		if _, ok := player.AllPositions[p.Position]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, p.Position)
		}
		positionCounter[p.Position]++
	}

	if got := positionCounter[player.PositionGoalkeeper]; got != rules.StartingGoalkeepers {
		return fmt.Errorf("%w: pos=%s expected=%d current=%d", ErrInsufficientFormation, player.PositionGoalkeeper, rules.StartingGoalkeepers, got)
	}
	for pos, minRequired := range rules.StartingMin {
		if positionCounter[pos] < minRequired {
			return fmt.Errorf("%w: pos=%s min=%d current=%d", ErrInsufficientFormation, pos, minRequired, positionCounter[pos])
		}
	}

	return nil
}

// Formation renders outfield starter counts, e.g. "3-5-2".
func Formation(starters []player.Player) string {
	counter := make(map[player.Position]int)
	for _, p := range starters {
		counter[p.Position]++
	}
	return fmt.Sprintf("%d-%d-%d",
		counter[player.PositionDefender],
		counter[player.PositionMidfielder],
		counter[player.PositionForward],
	)
}

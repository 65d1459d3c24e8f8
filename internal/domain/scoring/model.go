package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

var (
	ErrUnknownCategory = errors.New("unknown scoring category")
	ErrInvalidRule     = errors.New("invalid scoring rule")
)

// Category is one per-match statistic that earns or costs fantasy points.
type Category string

const (
	CategoryMinutes         Category = "minutes"
	CategoryGoalsScored     Category = "goals_scored"
	CategoryAssists         Category = "assists"
	CategoryCleanSheets     Category = "clean_sheets"
	CategoryGoalsConceded   Category = "goals_conceded"
	CategoryOwnGoals        Category = "own_goals"
	CategoryPenaltiesSaved  Category = "penalties_saved"
	CategoryPenaltiesMissed Category = "penalties_missed"
	CategoryYellowCards     Category = "yellow_cards"
	CategoryRedCards        Category = "red_cards"
	CategorySaves           Category = "saves"
	CategoryBonus           Category = "bonus"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryMinutes,
	CategoryGoalsScored,
	CategoryAssists,
	CategoryCleanSheets,
	CategoryGoalsConceded,
	CategoryOwnGoals,
	CategoryPenaltiesSaved,
	CategoryPenaltiesMissed,
	CategoryYellowCards,
	CategoryRedCards,
	CategorySaves,
	CategoryBonus,
}

func ParseCategory(value string) (Category, error) {
	for _, c := range Categories {
		if string(c) == value {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, value)
}

// Rule converts a statistic into points: a flat multiplier, or a
// per-position multiplier when ByPosition is set. Minutes use the playing
// time rule instead of a multiplier.
type Rule struct {
	Category   Category
	Multiplier float64
	ByPosition map[player.Position]float64
}

func (r Rule) multiplierFor(pos player.Position) float64 {
	if r.ByPosition != nil {
		return r.ByPosition[pos]
	}
	return r.Multiplier
}

// Table is the single source of scoring multipliers.
type Table struct {
	rules map[Category]Rule
}

func DefaultTable() Table {
	t, _ := NewTable(DefaultRules())
	return t
}

func DefaultRules() []Rule {
	return []Rule{
		{Category: CategoryMinutes},
		{Category: CategoryGoalsScored, ByPosition: map[player.Position]float64{
			player.PositionGoalkeeper: 10,
			player.PositionDefender:   6,
			player.PositionMidfielder: 5,
			player.PositionForward:    4,
		}},
		{Category: CategoryAssists, Multiplier: 3},
		{Category: CategoryCleanSheets, ByPosition: map[player.Position]float64{
			player.PositionGoalkeeper: 4,
			player.PositionDefender:   4,
			player.PositionMidfielder: 1,
			player.PositionForward:    0,
		}},
		{Category: CategoryGoalsConceded, Multiplier: -0.5},
		{Category: CategoryOwnGoals, Multiplier: -2},
		{Category: CategoryPenaltiesSaved, Multiplier: 5},
		{Category: CategoryPenaltiesMissed, Multiplier: -2},
		{Category: CategoryYellowCards, Multiplier: -1},
		{Category: CategoryRedCards, Multiplier: -3},
		{Category: CategorySaves, Multiplier: 1.0 / 3.0},
		{Category: CategoryBonus, Multiplier: 1},
	}
}

// NewTable builds a table from rules. Categories missing from rules score zero.
func NewTable(rules []Rule) (Table, error) {
	t := Table{rules: make(map[Category]Rule, len(rules))}
	for _, rule := range rules {
		if _, err := ParseCategory(string(rule.Category)); err != nil {
			return Table{}, err
		}
		if _, exists := t.rules[rule.Category]; exists {
			return Table{}, fmt.Errorf("%w: duplicate category %s", ErrInvalidRule, rule.Category)
		}
		if math.IsNaN(rule.Multiplier) || math.IsInf(rule.Multiplier, 0) {
			return Table{}, fmt.Errorf("%w: multiplier for %s is not finite", ErrInvalidRule, rule.Category)
		}
		for pos := range rule.ByPosition {
			if _, ok := player.AllPositions[pos]; !ok {
				return Table{}, fmt.Errorf("%w: %s has unknown position %s", ErrInvalidRule, rule.Category, pos)
			}
		}
		t.rules[rule.Category] = rule
	}
	return t, nil
}

// WithOverrides returns a copy of t where each given rule replaces the one
// for its category.
func (t Table) WithOverrides(overrides []Rule) (Table, error) {
	merged := make([]Rule, 0, len(Categories))
	replaced := make(map[Category]Rule, len(overrides))
	for _, o := range overrides {
		replaced[o.Category] = o
	}
	for _, c := range Categories {
		if o, ok := replaced[c]; ok {
			merged = append(merged, o)
			delete(replaced, c)
			continue
		}
		if r, ok := t.rules[c]; ok {
			merged = append(merged, r)
		}
	}
	for c := range replaced {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	return NewTable(merged)
}

func (t Table) Rule(c Category) (Rule, bool) {
	r, ok := t.rules[c]
	return r, ok
}

// Points converts an expected statistic value into fantasy points for a
// player of the given position.
func (t Table) Points(c Category, pos player.Position, value float64) float64 {
	if c == CategoryMinutes {
		if _, ok := t.rules[c]; !ok {
			return 0
		}
		return MinutesPoints(value)
	}
	rule, ok := t.rules[c]
	if !ok {
		return 0
	}
	return rule.multiplierFor(pos) * value
}

// Breakdown converts every category present in values and returns the
// per-category points with their total.
func (t Table) Breakdown(pos player.Position, values map[Category]float64) (map[Category]float64, float64) {
	out := make(map[Category]float64, len(values))
	total := 0.0
	for _, c := range Categories {
		v, ok := values[c]
		if !ok {
			continue
		}
		p := t.Points(c, pos, v)
		out[c] = p
		total += p
	}
	return out, total
}

// MinutesPoints awards 2 points from 60 minutes, a pro-rata share below,
// nothing for zero.
func MinutesPoints(minutes float64) float64 {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 60:
		return minutes / 60
	default:
		return 2
	}
}

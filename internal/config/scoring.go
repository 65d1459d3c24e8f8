package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
	"gopkg.in/yaml.v3"
)

// scoringFile is the YAML layout of a scoring override file:
//
//	rules:
//	  - category: saves
//	    multiplier: 0.5
//	  - category: goals_scored
//	    by_position: {GK: 10, DEF: 6, MID: 5, FWD: 4}
type scoringFile struct {
	Rules []scoringRule `yaml:"rules"`
}

type scoringRule struct {
	Category   string             `yaml:"category"`
	Multiplier *float64           `yaml:"multiplier"`
	ByPosition map[string]float64 `yaml:"by_position"`
}

// LoadScoringTable returns the default scoring table with the rules from path
// applied on top. An empty path returns the defaults.
func LoadScoringTable(path string) (scoring.Table, error) {
	if strings.TrimSpace(path) == "" {
		return scoring.DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Table{}, fmt.Errorf("read scoring rules %s: %w", path, err)
	}
	return ParseScoringTable(data)
}

func ParseScoringTable(data []byte) (scoring.Table, error) {
	var file scoringFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return scoring.Table{}, fmt.Errorf("parse scoring rules: %w", err)
	}

	overrides := make([]scoring.Rule, 0, len(file.Rules))
	seen := make(map[scoring.Category]struct{}, len(file.Rules))
	for i, raw := range file.Rules {
		category, err := scoring.ParseCategory(strings.TrimSpace(raw.Category))
		if err != nil {
			return scoring.Table{}, fmt.Errorf("scoring rule %d: %w", i, err)
		}
		if _, dup := seen[category]; dup {
			return scoring.Table{}, fmt.Errorf("scoring rule %d: %w: duplicate category %s", i, scoring.ErrInvalidRule, category)
		}
		seen[category] = struct{}{}
		if raw.Multiplier == nil && len(raw.ByPosition) == 0 && category != scoring.CategoryMinutes {
			return scoring.Table{}, fmt.Errorf("scoring rule %d (%s): multiplier or by_position is required", i, category)
		}

		rule := scoring.Rule{Category: category}
		if raw.Multiplier != nil {
			rule.Multiplier = *raw.Multiplier
		}
		if len(raw.ByPosition) > 0 {
			rule.ByPosition = make(map[player.Position]float64, len(raw.ByPosition))
			for pos, value := range raw.ByPosition {
				rule.ByPosition[player.Position(strings.ToUpper(strings.TrimSpace(pos)))] = value
			}
		}
		overrides = append(overrides, rule)
	}

	table, err := scoring.DefaultTable().WithOverrides(overrides)
	if err != nil {
		return scoring.Table{}, fmt.Errorf("apply scoring rules: %w", err)
	}
	return table, nil
}

// Package dto holds the wire shapes shared by the CLI JSON output and the MCP
// tools. Money is rendered in currency units, not tenths.
package dto

import (
	"math"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/lineup"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/money"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

type Pick struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	TeamID   int64   `json:"team_id"`
	Position string  `json:"position"`
	Points   float64 `json:"points"`
}

type Lineup struct {
	ManagerID        int64   `json:"manager_id,omitempty"`
	Gameweeks        []int   `json:"gameweeks"`
	Formation        string  `json:"formation"`
	ExpectedPoints   float64 `json:"expected_points"`
	Captain          Pick    `json:"captain"`
	ViceCaptain      Pick    `json:"vice_captain"`
	Starters         []Pick  `json:"starters"`
	Bench            []Pick  `json:"bench"`
	RecommendationID string  `json:"recommendation_id,omitempty"`
}

type PairSide struct {
	PlayerID       int64              `json:"player_id"`
	Name           string             `json:"name"`
	TeamID         int64              `json:"team_id"`
	Position       string             `json:"position"`
	Price          float64            `json:"price"`
	Points         float64            `json:"points"`
	CategoryPoints map[string]float64 `json:"category_points,omitempty"`
}

type TransferPair struct {
	In            PairSide `json:"in"`
	Out           PairSide `json:"out"`
	PredictedGain float64  `json:"predicted_gain"`
	Cost          float64  `json:"cost"`
}

type TransferPlan struct {
	ManagerID        int64          `json:"manager_id"`
	Gameweeks        []int          `json:"gameweeks"`
	TransferCount    int            `json:"transfer_count"`
	TransfersIn      []int64        `json:"transfers_in"`
	TransfersOut     []int64        `json:"transfers_out"`
	Pairs            []TransferPair `json:"pairs"`
	NewSquad         []int64        `json:"new_squad"`
	PointsGain       float64        `json:"points_gain"`
	ExpectedPoints   float64        `json:"expected_points"`
	TotalCost        float64        `json:"total_cost"`
	TotalSale        float64        `json:"total_sale"`
	NetCost          float64        `json:"net_cost"`
	Budget           float64        `json:"budget"`
	RemainingBank    float64        `json:"remaining_bank"`
	RecommendationID string         `json:"recommendation_id,omitempty"`
}

type BatchItem struct {
	ManagerID int64         `json:"manager_id"`
	Plan      *TransferPlan `json:"plan,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type SalePrice struct {
	ManagerID    int64   `json:"manager_id"`
	PlayerID     int64   `json:"player_id"`
	Name         string  `json:"name"`
	CurrentValue float64 `json:"current_value"`
	SalePrice    float64 `json:"sale_price"`
}

type Fixture struct {
	ID             int64  `json:"id"`
	Gameweek       int    `json:"gameweek"`
	HomeTeam       string `json:"home_team"`
	AwayTeam       string `json:"away_team"`
	KickoffAt      string `json:"kickoff_at,omitempty"`
	HomeDifficulty int    `json:"home_difficulty"`
	AwayDifficulty int    `json:"away_difficulty"`
}

type RankedPlayer struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	TeamID   int64   `json:"team_id"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
	Points   float64 `json:"points"`
}

func FromLineup(result usecase.LineupResult) Lineup {
	sel := result.Selection
	return Lineup{
		ManagerID:        result.ManagerID,
		Gameweeks:        append([]int(nil), result.Gameweeks...),
		Formation:        sel.Formation,
		ExpectedPoints:   round2(sel.ExpectedPoints),
		Captain:          fromPick(sel.Captain),
		ViceCaptain:      fromPick(sel.ViceCaptain),
		Starters:         fromPicks(sel.Starters),
		Bench:            fromPicks(sel.Bench),
		RecommendationID: result.RecommendationID,
	}
}

func FromTransferResult(result usecase.TransferResult) TransferPlan {
	plan := result.Plan
	pairs := make([]TransferPair, 0, len(plan.Pairs))
	for _, pair := range plan.Pairs {
		pairs = append(pairs, TransferPair{
			In:            fromPairSide(pair.In),
			Out:           fromPairSide(pair.Out),
			PredictedGain: round2(pair.PredictedGain),
			Cost:          units(pair.Cost),
		})
	}

	return TransferPlan{
		ManagerID:        result.ManagerID,
		Gameweeks:        append([]int(nil), result.Gameweeks...),
		TransferCount:    plan.TransferCount,
		TransfersIn:      append([]int64{}, plan.TransfersIn...),
		TransfersOut:     append([]int64{}, plan.TransfersOut...),
		Pairs:            pairs,
		NewSquad:         append([]int64(nil), plan.NewSquad...),
		PointsGain:       round2(plan.PointsGain),
		ExpectedPoints:   round2(plan.ExpectedPoints),
		TotalCost:        units(plan.TotalCost),
		TotalSale:        units(plan.TotalSale),
		NetCost:          units(plan.NetCost),
		Budget:           units(plan.Budget),
		RemainingBank:    units(plan.RemainingBank),
		RecommendationID: result.RecommendationID,
	}
}

func FromBatch(items []usecase.BatchItem) []BatchItem {
	out := make([]BatchItem, 0, len(items))
	for _, item := range items {
		row := BatchItem{ManagerID: item.ManagerID}
		if item.Err != nil {
			row.Error = item.Err.Error()
		} else {
			plan := FromTransferResult(item.Result)
			row.Plan = &plan
		}
		out = append(out, row)
	}
	return out
}

func FromSalePrice(result usecase.SalePriceResult) SalePrice {
	return SalePrice{
		ManagerID:    result.ManagerID,
		PlayerID:     result.PlayerID,
		Name:         result.Name,
		CurrentValue: units(result.CurrentValue),
		SalePrice:    units(result.SalePrice),
	}
}

func FromFixtures(items []usecase.UpcomingFixture) []Fixture {
	out := make([]Fixture, 0, len(items))
	for _, item := range items {
		row := Fixture{
			ID:             item.ID,
			Gameweek:       item.Gameweek,
			HomeTeam:       item.HomeTeam,
			AwayTeam:       item.AwayTeam,
			HomeDifficulty: item.HomeDifficulty,
			AwayDifficulty: item.AwayDifficulty,
		}
		if item.KickoffAt != nil {
			row.KickoffAt = item.KickoffAt.UTC().Format(time.RFC3339)
		}
		out = append(out, row)
	}
	return out
}

func FromRankedPlayers(items []usecase.RankedPlayer) []RankedPlayer {
	out := make([]RankedPlayer, 0, len(items))
	for _, item := range items {
		out = append(out, RankedPlayer{
			PlayerID: item.Player.ID,
			Name:     item.Player.DisplayName(),
			TeamID:   item.Player.TeamID,
			Position: string(item.Player.Position),
			Price:    units(item.Player.Price),
			Points:   round2(item.Points),
		})
	}
	return out
}

func fromPick(p lineup.Pick) Pick {
	return Pick{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		TeamID:   p.TeamID,
		Position: string(p.Position),
		Points:   round2(p.Points),
	}
}

func fromPicks(items []lineup.Pick) []Pick {
	out := make([]Pick, 0, len(items))
	for _, p := range items {
		out = append(out, fromPick(p))
	}
	return out
}

func fromPairSide(side fantasy.PairSide) PairSide {
	var categories map[string]float64
	if len(side.CategoryPoints) > 0 {
		categories = make(map[string]float64, len(side.CategoryPoints))
		for c, v := range side.CategoryPoints {
			categories[string(c)] = round2(v)
		}
	}

	return PairSide{
		PlayerID:       side.PlayerID,
		Name:           side.Name,
		TeamID:         side.TeamID,
		Position:       string(side.Position),
		Price:          units(side.Price),
		Points:         round2(side.Points),
		CategoryPoints: categories,
	}
}

func units(tenths int64) float64 {
	return money.FromTenths(tenths).InexactFloat64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package fantasy

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/money"
	"github.com/shopspring/decimal"
)

// Squad is a manager's 15 picks for one gameweek. Bank is in tenths.
type Squad struct {
	ManagerID int64
	Gameweek  int
	PlayerIDs []int64
	Bank      int64
	UpdatedAt time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ManagerID <= 0 {
		return fmt.Errorf("manager id is required")
	}
	if s.Gameweek <= 0 {
		return fmt.Errorf("gameweek is required")
	}
	if len(s.PlayerIDs) == 0 {
		return fmt.Errorf("squad picks are required")
	}
	if s.Bank < 0 {
		return fmt.Errorf("bank must not be negative")
	}

	return nil
}

// Purchase is one entry of a manager's transfer history. Costs are in tenths.
type Purchase struct {
	ManagerID     int64
	Gameweek      int
	PlayerInID    int64
	PlayerInCost  int64
	PlayerOutID   int64
	PlayerOutCost int64
	Time          time.Time
}

// PairSide describes one player of a transfer pair. Price is the market value
// for the incoming player and the sale price for the outgoing one.
type PairSide struct {
	PlayerID       int64
	Name           string
	TeamID         int64
	Position       player.Position
	Price          int64
	Points         float64
	CategoryPoints map[scoring.Category]float64
}

// TransferPair zips one incoming and one outgoing player of the same rank in
// position order. It is a reporting pairing only.
type TransferPair struct {
	In            PairSide
	Out           PairSide
	PredictedGain float64
	Cost          int64
}

// TransferPlan is the optimizer's answer. Money fields are in tenths.
type TransferPlan struct {
	NewSquad       []int64
	TransfersIn    []int64
	TransfersOut   []int64
	Pairs          []TransferPair
	TransferCount  int
	PointsGain     float64
	ExpectedPoints float64
	NetCost        int64
	TotalCost      int64
	TotalSale      int64
	Budget         int64
	RemainingBank  int64
}

// NetCostValue is NetCost expressed in currency units.
func (p TransferPlan) NetCostValue() decimal.Decimal {
	return money.FromTenths(p.NetCost)
}

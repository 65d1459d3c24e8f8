package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fpl-optimizer/internal/interfaces/dto"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

const (
	toolSelectStartingXI  = "select_starting_xi"
	toolOptimizeTransfers = "optimize_transfers"
	toolSalePrice         = "sale_price"
)

type SelectStartingXIArgs struct {
	ManagerID int64   `json:"manager_id,omitempty" jsonschema:"Manager id whose stored squad is used"`
	PlayerIDs []int64 `json:"player_ids,omitempty" jsonschema:"Explicit 15 player ids instead of a manager squad"`
	Horizon   int     `json:"horizon,omitempty" jsonschema:"Gameweeks to sum predicted points over (0 = default)"`
	Persist   bool    `json:"persist,omitempty" jsonschema:"Store the result as a recommendation"`
	Refresh   *bool   `json:"refresh,omitempty" jsonschema:"Sync and predict before selecting"`
}

type OptimizeTransfersArgs struct {
	ManagerID    int64    `json:"manager_id" jsonschema:"Manager id (required)"`
	MaxTransfers int      `json:"max_transfers,omitempty" jsonschema:"Maximum number of transfers (default 1)"`
	Budget       *float64 `json:"budget,omitempty" jsonschema:"Spendable budget in millions (default: bank)"`
	Horizon      int      `json:"horizon,omitempty" jsonschema:"Gameweeks to sum predicted points over (0 = default)"`
	Persist      bool     `json:"persist,omitempty" jsonschema:"Store the result as a recommendation"`
	Refresh      *bool    `json:"refresh,omitempty" jsonschema:"Sync and predict before optimizing"`
}

type SalePriceArgs struct {
	ManagerID int64 `json:"manager_id" jsonschema:"Manager id (required)"`
	PlayerID  int64 `json:"player_id" jsonschema:"Squad player id (required)"`
	Refresh   *bool `json:"refresh,omitempty" jsonschema:"Sync reference data and the manager first"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSelectStartingXI,
		Description: "Pick the starting eleven, captain, vice captain and bench order for the next gameweek",
	}, s.selectStartingXI)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolOptimizeTransfers,
		Description: "Find the transfers that maximise predicted points within budget and squad rules",
	}, s.optimizeTransfers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSalePrice,
		Description: "Sale price of a squad player given the manager's purchase price",
	}, s.salePrice)
}

func (s *Server) selectStartingXI(ctx context.Context, _ *mcp.CallToolRequest, args SelectStartingXIArgs) (*mcp.CallToolResult, any, error) {
	ctx, span := s.startToolSpan(ctx, toolSelectStartingXI)
	defer span.End()

	if err := s.refresh(ctx, args.Refresh, usecase.RefreshInput{
		ManagerIDs: managerIDs(args.ManagerID),
		Horizon:    args.Horizon,
	}); err != nil {
		return s.toolError(ctx, toolSelectStartingXI, err), nil, nil
	}

	res, err := s.svc.Lineups.SelectLineup(ctx, usecase.SelectLineupInput{
		ManagerID: args.ManagerID,
		PlayerIDs: args.PlayerIDs,
		Horizon:   args.Horizon,
		Persist:   args.Persist,
	})
	if err != nil {
		return s.toolError(ctx, toolSelectStartingXI, err), nil, nil
	}
	return toolJSON(dto.FromLineup(res))
}

func (s *Server) optimizeTransfers(ctx context.Context, _ *mcp.CallToolRequest, args OptimizeTransfersArgs) (*mcp.CallToolResult, any, error) {
	ctx, span := s.startToolSpan(ctx, toolOptimizeTransfers)
	defer span.End()

	maxTransfers := args.MaxTransfers
	if maxTransfers == 0 {
		maxTransfers = 1
	}

	if err := s.refresh(ctx, args.Refresh, usecase.RefreshInput{
		ManagerIDs: managerIDs(args.ManagerID),
		Horizon:    args.Horizon,
	}); err != nil {
		return s.toolError(ctx, toolOptimizeTransfers, err), nil, nil
	}

	res, err := s.svc.Transfers.OptimizeTransfers(ctx, usecase.OptimizeTransfersInput{
		ManagerID:    args.ManagerID,
		MaxTransfers: maxTransfers,
		Budget:       args.Budget,
		Horizon:      args.Horizon,
		Persist:      args.Persist,
	})
	if err != nil {
		return s.toolError(ctx, toolOptimizeTransfers, err), nil, nil
	}
	return toolJSON(dto.FromTransferResult(res))
}

func (s *Server) salePrice(ctx context.Context, _ *mcp.CallToolRequest, args SalePriceArgs) (*mcp.CallToolResult, any, error) {
	ctx, span := s.startToolSpan(ctx, toolSalePrice)
	defer span.End()

	if err := s.refresh(ctx, args.Refresh, usecase.RefreshInput{
		ManagerIDs:    managerIDs(args.ManagerID),
		SkipHistories: true,
	}); err != nil {
		return s.toolError(ctx, toolSalePrice, err), nil, nil
	}

	res, err := s.svc.Transfers.SalePrice(ctx, usecase.SalePriceInput{
		ManagerID: args.ManagerID,
		PlayerID:  args.PlayerID,
	})
	if err != nil {
		return s.toolError(ctx, toolSalePrice, err), nil, nil
	}
	return toolJSON(dto.FromSalePrice(res))
}

func managerIDs(id int64) []int64 {
	if id <= 0 {
		return nil
	}
	return []int64{id}
}

// Package mcpserver exposes the optimizer use cases as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var mcpTracer = otel.Tracer("fpl-optimizer/internal/interfaces/mcpserver")

type Refresher interface {
	Refresh(ctx context.Context, input usecase.RefreshInput) (usecase.RefreshResult, error)
}

type LineupSelector interface {
	SelectLineup(ctx context.Context, input usecase.SelectLineupInput) (usecase.LineupResult, error)
}

type TransferPlanner interface {
	OptimizeTransfers(ctx context.Context, input usecase.OptimizeTransfersInput) (usecase.TransferResult, error)
	SalePrice(ctx context.Context, input usecase.SalePriceInput) (usecase.SalePriceResult, error)
}

type Services struct {
	Refresh   Refresher
	Lineups   LineupSelector
	Transfers TransferPlanner
}

type Options struct {
	Name    string
	Version string
	// AutoRefresh syncs reference data and the manager before each tool call
	// unless the call sets refresh explicitly.
	AutoRefresh bool
	Logger      *logging.Logger
}

type Server struct {
	svc         Services
	autoRefresh bool
	logger      *logging.Logger
	server      *mcp.Server
}

func New(svc Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	name := opts.Name
	if name == "" {
		name = "fpl-optimizer"
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		svc:         svc,
		autoRefresh: opts.AutoRefresh,
		logger:      logger,
		server:      mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "mcp server starting", "transport", "stdio")
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}

func (s *Server) startToolSpan(ctx context.Context, tool string) (context.Context, trace.Span) {
	return mcpTracer.Start(ctx, "mcp.tool."+tool, trace.WithSpanKind(trace.SpanKindServer))
}

// refresh runs the ingestion pipeline when the call asks for it, or when the
// server defaults to it.
func (s *Server) refresh(ctx context.Context, explicit *bool, input usecase.RefreshInput) error {
	enabled := s.autoRefresh
	if explicit != nil {
		enabled = *explicit
	}
	if !enabled || s.svc.Refresh == nil {
		return nil
	}

	res, err := s.svc.Refresh.Refresh(ctx, input)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "data refreshed",
		"success", res.SuccessCount,
		"failed", res.FailedCount,
		"skipped", res.SkippedCount,
	)
	return nil
}

func (s *Server) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	reason := errorReason(err)
	s.logger.WarnContext(ctx, "tool call failed", "tool", tool, "reason", reason, "error", err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error (%s): %v", reason, err)},
		},
	}
}

func toolJSON(payload any) (*mcp.CallToolResult, any, error) {
	b, err := sonic.ConfigDefault.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return "invalidInput"
	case errors.Is(err, usecase.ErrNotFound):
		return "notFound"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return "dependencyUnavailable"
	case errors.Is(err, fantasy.ErrNoFeasibleLineup),
		errors.Is(err, fantasy.ErrNoFeasibleTransferPlan):
		return "infeasible"
	default:
		return "internalError"
	}
}

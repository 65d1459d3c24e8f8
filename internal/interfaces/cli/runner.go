package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

type Refresher interface {
	Refresh(ctx context.Context, input usecase.RefreshInput) (usecase.RefreshResult, error)
}

type Syncer interface {
	SyncReference(ctx context.Context) (usecase.SyncReferenceResult, error)
	SyncPlayerHistories(ctx context.Context, input usecase.SyncHistoriesInput) (usecase.SyncHistoriesResult, error)
	ImportManager(ctx context.Context, input usecase.ImportManagerInput) (usecase.ImportManagerResult, error)
}

type Predictor interface {
	Predict(ctx context.Context, input usecase.PredictInput) (usecase.PredictResult, error)
}

type LineupSelector interface {
	SelectLineup(ctx context.Context, input usecase.SelectLineupInput) (usecase.LineupResult, error)
}

type TransferPlanner interface {
	OptimizeTransfers(ctx context.Context, input usecase.OptimizeTransfersInput) (usecase.TransferResult, error)
	OptimizeBatch(ctx context.Context, input usecase.BatchInput) ([]usecase.BatchItem, error)
	SalePrice(ctx context.Context, input usecase.SalePriceInput) (usecase.SalePriceResult, error)
}

type FixtureLister interface {
	ListUpcoming(ctx context.Context, horizon int) ([]usecase.UpcomingFixture, error)
}

type PlayerRanker interface {
	TopPlayers(ctx context.Context, input usecase.TopPlayersInput) ([]usecase.RankedPlayer, error)
}

type Services struct {
	Refresh   Refresher
	Sync      Syncer
	Predict   Predictor
	Lineups   LineupSelector
	Transfers TransferPlanner
	Fixtures  FixtureLister
	Players   PlayerRanker
}

type Options struct {
	// AutoRefresh runs the ingestion pipeline before optimizer commands. It is
	// the default for stores that do not survive the process.
	AutoRefresh bool
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *logging.Logger
}

// Runner dispatches fplopt subcommands to the use cases and renders their
// results as tables or JSON.
type Runner struct {
	svc         Services
	autoRefresh bool
	stdout      io.Writer
	stderr      io.Writer
	logger      *logging.Logger

	jsonOutput bool
}

func NewRunner(svc Services, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	return &Runner{
		svc:         svc,
		autoRefresh: opts.AutoRefresh,
		stdout:      stdout,
		stderr:      stderr,
		logger:      logger,
	}
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

func (r *Runner) commands() []command {
	return []command{
		{name: "sync", summary: "sync reference data, player histories and manager squads", run: r.runSync},
		{name: "predict", summary: "compute predicted points for upcoming gameweeks", run: r.runPredict},
		{name: "lineup", summary: "pick the starting eleven, captain and bench order", run: r.runLineup},
		{name: "transfers", summary: "find the best transfers for one manager", run: r.runTransfers},
		{name: "batch", summary: "optimize transfers for several managers", run: r.runBatch},
		{name: "price", summary: "show the sale price of a squad player", run: r.runPrice},
		{name: "fixtures", summary: "list fixtures of upcoming gameweeks", run: r.runFixtures},
		{name: "top", summary: "rank players by predicted points", run: r.runTop},
	}
}

// Run executes one command line and returns the process exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("fplopt", flag.ContinueOnError)
	global.SetOutput(r.stderr)
	global.BoolVar(&r.jsonOutput, "json", false, "print JSON instead of tables")
	global.Usage = r.usage
	if err := global.Parse(args); err != nil {
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		r.usage()
		return exitUsage
	}

	name := strings.ToLower(strings.TrimSpace(rest[0]))
	for _, cmd := range r.commands() {
		if cmd.name != name {
			continue
		}

		ctx, span := startCommandSpan(ctx, "cli.Runner."+cmd.name)
		defer span.End()

		if err := cmd.run(ctx, rest[1:]); err != nil {
			if isUsageError(err) {
				return exitUsage
			}
			span.RecordError(err)
			r.logger.WarnContext(ctx, "command failed", "command", cmd.name, "error", err)
			return r.writeError(err)
		}
		return exitOK
	}

	fmt.Fprintf(r.stderr, "unknown command %q\n", rest[0])
	r.usage()
	return exitUsage
}

func (r *Runner) usage() {
	fmt.Fprintln(r.stderr, "usage: fplopt [-json] <command> [flags]")
	fmt.Fprintln(r.stderr, "commands:")
	for _, cmd := range r.commands() {
		fmt.Fprintf(r.stderr, "  %-10s %s\n", cmd.name, cmd.summary)
	}
}

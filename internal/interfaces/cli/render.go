package cli

import (
	"errors"
	"fmt"
	"io"

	sonic "github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

const (
	exitOK                    = 0
	exitError                 = 1
	exitUsage                 = 2
	exitInvalidInput          = 3
	exitNotFound              = 4
	exitDependencyUnavailable = 5
	exitInfeasible            = 6
)

type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	ExitCode int
	Reason   string
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{ExitCode: exitInvalidInput, Reason: "invalidInput"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{ExitCode: exitNotFound, Reason: "notFound"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{ExitCode: exitDependencyUnavailable, Reason: "dependencyUnavailable"}
	case errors.Is(err, fantasy.ErrNoFeasibleLineup),
		errors.Is(err, fantasy.ErrNoFeasibleTransferPlan):
		return mappedError{ExitCode: exitInfeasible, Reason: "infeasible"}
	default:
		return mappedError{ExitCode: exitError, Reason: "internalError"}
	}
}

func (r *Runner) writeError(err error) int {
	mapped := mapError(err)
	if r.jsonOutput {
		r.writeJSON(envelope{Error: &errorBody{
			Code:    mapped.ExitCode,
			Reason:  mapped.Reason,
			Message: err.Error(),
		}})
		return mapped.ExitCode
	}

	fmt.Fprintf(r.stderr, "error (%s): %v\n", mapped.Reason, err)
	return mapped.ExitCode
}

func (r *Runner) writeJSON(payload any) {
	enc := sonic.ConfigDefault.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(r.stderr, "encode output: %v\n", err)
	}
}

// emit prints data as JSON, or hands the writer to table when tables are
// requested.
func (r *Runner) emit(data any, table func(w io.Writer)) {
	if r.jsonOutput {
		r.writeJSON(envelope{Data: data})
		return
	}
	table(r.stdout)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(header)...)
	for _, row := range rows {
		_ = table.Append(toAny(row)...)
	}
	_ = table.Render()
}

// renderPairs prints a two-column key/value table.
func renderPairs(w io.Writer, pairs [][2]string) {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	renderTable(w, []string{"Field", "Value"}, rows)
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

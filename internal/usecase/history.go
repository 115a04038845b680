package usecase

import (
	"context"
	"fmt"
	"io"

	"CoreTaxSentiment/internal/ports"
	"CoreTaxSentiment/internal/report"
)

// History prints the latest stored runs.
type History struct {
	repository ports.RunRepository
	stdout     io.Writer
}

// NewHistory builds the history use case.
func NewHistory(repository ports.RunRepository, stdout io.Writer) *History {
	return &History{repository: repository, stdout: stdout}
}

// Run lists up to limit runs and the keywords of the newest one.
func (h *History) Run(ctx context.Context, limit int) (report.History, error) {
	if h.repository == nil {
		return report.History{}, fmt.Errorf("run store is disabled")
	}

	runs, err := h.repository.ListRuns(ctx, limit)
	if err != nil {
		return report.History{}, fmt.Errorf("list runs: %w", err)
	}
	out := report.History{Runs: runs}
	if len(runs) > 0 {
		out.Latest, err = h.repository.RunKeywords(ctx, runs[0].ID)
		if err != nil {
			return out, fmt.Errorf("load keywords of %s: %w", runs[0].ID, err)
		}
	}

	if h.stdout != nil {
		if err := out.Render(h.stdout); err != nil {
			return out, fmt.Errorf("render history: %w", err)
		}
	}
	return out, nil
}

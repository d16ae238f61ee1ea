package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	runStore   storage.RunStore
	pointStore storage.MonthlyPointStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.RunStore, pointStore storage.MonthlyPointStore) *Generator {
	return &Generator{
		runStore:   runStore,
		pointStore: pointStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a report over every stored run.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	runs, err := g.runStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	rows := make([]RunSummaryRow, 0, len(runs))
	for _, run := range runs {
		row := RunSummaryRow{
			RunID:               run.RunID,
			Name:                run.Name,
			LumpSum:             run.LumpSum,
			Months:              run.Months,
			PayoffMonth:         -1,
			TotalInterestPaid:   run.TotalInterestPaid,
			TotalPrincipalPaid:  run.TotalPrincipalPaid,
			TotalContributions:  run.TotalContributions,
			TotalPocketMoney:    run.TotalPocketMoney,
			FinalLoanBalance:    run.FinalLoanBalance,
			FinalSavingsBalance: run.FinalSavingsBalance,
		}

		payoff, err := g.payoffMonth(ctx, run)
		if err != nil {
			return nil, err
		}
		row.PayoffMonth = payoff

		rows = append(rows, row)
	}

	return &Report{
		GeneratedAt: g.now(),
		RunCount:    len(rows),
		Runs:        rows,
	}, nil
}

// payoffMonth scans the run's series for the first month the loan hit zero.
func (g *Generator) payoffMonth(ctx context.Context, run *domain.SimulationRun) (int, error) {
	if run.FinalLoanBalance > 0 {
		return -1, nil
	}

	points, err := g.pointStore.GetByRunID(ctx, run.RunID)
	if err != nil {
		return -1, fmt.Errorf("load points for run %s: %w", run.RunID, err)
	}

	for _, p := range points {
		if p.LoanBalance == 0 {
			return p.MonthIndex, nil
		}
	}
	return -1, nil
}

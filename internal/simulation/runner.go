package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/idhash"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// Runner executes simulations and persists the results. Either store may be
// nil, in which case that side of persistence is skipped and the runner acts
// as a pure compute wrapper.
type Runner struct {
	runStore   storage.RunStore
	pointStore storage.MonthlyPointStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewRunner creates a new simulation runner.
func NewRunner(runStore storage.RunStore, pointStore storage.MonthlyPointStore) *Runner {
	return &Runner{
		runStore:   runStore,
		pointStore: pointStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run validates cfg, executes the full projection, and persists the run
// record and its monthly series. The returned run carries the reduced totals.
func (r *Runner) Run(ctx context.Context, name string, cfg domain.Config, lumpSum float64) (*domain.SimulationRun, *domain.SimulationResult, error) {
	validated, err := NewConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	result := Simulate(validated, lumpSum)
	run := buildRun(name, validated, lumpSum, r.now().UnixMilli(), result)

	if r.runStore != nil {
		if err := r.runStore.Insert(ctx, run); err != nil {
			return nil, nil, fmt.Errorf("persist run %s: %w", run.RunID, err)
		}
	}

	if r.pointStore != nil {
		points := toMonthlyPoints(run.RunID, result)
		if err := r.pointStore.InsertBulk(ctx, points); err != nil {
			return nil, nil, fmt.Errorf("persist monthly points for run %s: %w", run.RunID, err)
		}
	}

	return run, result, nil
}

// buildRun reduces a result into its persisted record.
func buildRun(name string, cfg domain.Config, lumpSum float64, createdAt int64, result *domain.SimulationResult) *domain.SimulationRun {
	run := &domain.SimulationRun{
		RunID:            idhash.ComputeRunID(name, cfg, lumpSum),
		Name:             name,
		Config:           cfg,
		LumpSum:          lumpSum,
		CreatedAt:        createdAt,
		Months:           result.Months(),
		TotalPocketMoney: result.TotalPocketMoney,
	}

	for _, v := range result.InterestPayments {
		run.TotalInterestPaid += v
	}
	for _, v := range result.PrincipalPayments {
		run.TotalPrincipalPaid += v
	}
	for _, v := range result.SavingsContributions {
		run.TotalContributions += v
	}

	if n := result.Months(); n > 0 {
		run.FinalLoanBalance = result.LoanBalance[n-1]
		run.FinalSavingsBalance = result.SavingsBalance[n-1]
	}

	return run
}

// toMonthlyPoints flattens the parallel series into per-month rows.
func toMonthlyPoints(runID string, result *domain.SimulationResult) []*domain.MonthlyPoint {
	points := make([]*domain.MonthlyPoint, 0, result.Months())
	for i := 0; i < result.Months(); i++ {
		points = append(points, &domain.MonthlyPoint{
			RunID:               runID,
			MonthIndex:          i,
			LoanBalance:         result.LoanBalance[i],
			SavingsBalance:      result.SavingsBalance[i],
			PocketMoneyBalance:  result.PocketMoneyBalance[i],
			LoanPayment:         result.LoanPayments[i],
			PrincipalPayment:    result.PrincipalPayments[i],
			InterestPayment:     result.InterestPayments[i],
			SavingsContribution: result.SavingsContributions[i],
			PocketMoney:         result.PocketMoney[i],
		})
	}
	return points
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO simulation_runs (
			run_id, name, created_at, lump_sum, months,
			loan_amount, loan_rate, loan_term_months,
			target_payment, minimum_payment,
			initial_savings, monthly_savings_payment,
			investment_rate, tax_rate, investment_type, excess_to_savings,
			total_interest_paid, total_principal_paid, total_contributions, total_pocket_money,
			final_loan_balance, final_savings_balance
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Name, r.CreatedAt, r.LumpSum, r.Months,
		r.Config.LoanAmount, r.Config.LoanRate, r.Config.LoanTermMonths,
		r.Config.TargetPayment, r.Config.MinimumPayment,
		r.Config.InitialSavings, r.Config.MonthlySavingsPayment,
		r.Config.InvestmentRate, r.Config.TaxRate, string(r.Config.Regime), r.Config.ExcessToSavings,
		r.TotalInterestPaid, r.TotalPrincipalPaid, r.TotalContributions, r.TotalPocketMoney,
		r.FinalLoanBalance, r.FinalSavingsBalance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error) {
	query := selectRunColumns + `
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanSimulationRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation run by id: %w", err)
	}
	return r, nil
}

// List retrieves all runs, ordered by created_at ASC, run_id ASC.
func (s *RunStore) List(ctx context.Context) ([]*domain.SimulationRun, error) {
	query := selectRunColumns + `
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list simulation runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.SimulationRun
	for rows.Next() {
		r, err := scanSimulationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulation run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation run rows: %w", err)
	}

	return runs, nil
}

const selectRunColumns = `
		SELECT
			run_id, name, created_at, lump_sum, months,
			loan_amount, loan_rate, loan_term_months,
			target_payment, minimum_payment,
			initial_savings, monthly_savings_payment,
			investment_rate, tax_rate, investment_type, excess_to_savings,
			total_interest_paid, total_principal_paid, total_contributions, total_pocket_money,
			final_loan_balance, final_savings_balance
		FROM simulation_runs
`

// scanSimulationRun scans a single row into a SimulationRun.
func scanSimulationRun(row pgx.Row) (*domain.SimulationRun, error) {
	var r domain.SimulationRun
	var regime string

	err := row.Scan(
		&r.RunID, &r.Name, &r.CreatedAt, &r.LumpSum, &r.Months,
		&r.Config.LoanAmount, &r.Config.LoanRate, &r.Config.LoanTermMonths,
		&r.Config.TargetPayment, &r.Config.MinimumPayment,
		&r.Config.InitialSavings, &r.Config.MonthlySavingsPayment,
		&r.Config.InvestmentRate, &r.Config.TaxRate, &regime, &r.Config.ExcessToSavings,
		&r.TotalInterestPaid, &r.TotalPrincipalPaid, &r.TotalContributions, &r.TotalPocketMoney,
		&r.FinalLoanBalance, &r.FinalSavingsBalance,
	)
	if err != nil {
		return nil, err
	}

	r.Config.Regime = domain.Regime(regime)
	return &r, nil
}

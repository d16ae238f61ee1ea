package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// ConfigStore implements storage.ConfigStore using PostgreSQL.
type ConfigStore struct {
	pool *Pool
}

// NewConfigStore creates a new ConfigStore.
func NewConfigStore(pool *Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConfigStore = (*ConfigStore)(nil)

// Save adds a configuration revision. Returns ErrDuplicateKey if
// (name, saved_at) already exists.
func (s *ConfigStore) Save(ctx context.Context, c *domain.NamedConfig) error {
	if c == nil || c.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO named_configs (
			name, saved_at,
			loan_amount, loan_rate, loan_term_months,
			target_payment, minimum_payment,
			initial_savings, monthly_savings_payment,
			investment_rate, tax_rate, investment_type, excess_to_savings
		) VALUES (
			$1, $2,
			$3, $4, $5,
			$6, $7,
			$8, $9,
			$10, $11, $12, $13
		)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Name, c.SavedAt,
		c.Config.LoanAmount, c.Config.LoanRate, c.Config.LoanTermMonths,
		c.Config.TargetPayment, c.Config.MinimumPayment,
		c.Config.InitialSavings, c.Config.MonthlySavingsPayment,
		c.Config.InvestmentRate, c.Config.TaxRate, string(c.Config.Regime), c.Config.ExcessToSavings,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("save named config: %w", err)
	}
	return nil
}

// GetLatestByName retrieves the most recently saved revision for a name.
func (s *ConfigStore) GetLatestByName(ctx context.Context, name string) (*domain.NamedConfig, error) {
	query := `
		SELECT
			name, saved_at,
			loan_amount, loan_rate, loan_term_months,
			target_payment, minimum_payment,
			initial_savings, monthly_savings_payment,
			investment_rate, tax_rate, investment_type, excess_to_savings
		FROM named_configs
		WHERE name = $1
		ORDER BY saved_at DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, name)
	c, err := scanNamedConfig(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest config by name: %w", err)
	}
	return c, nil
}

// List retrieves all saved revisions, ordered by name ASC, saved_at ASC.
func (s *ConfigStore) List(ctx context.Context) ([]*domain.NamedConfig, error) {
	query := `
		SELECT
			name, saved_at,
			loan_amount, loan_rate, loan_term_months,
			target_payment, minimum_payment,
			initial_savings, monthly_savings_payment,
			investment_rate, tax_rate, investment_type, excess_to_savings
		FROM named_configs
		ORDER BY name ASC, saved_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list named configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.NamedConfig
	for rows.Next() {
		c, err := scanNamedConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan named config row: %w", err)
		}
		configs = append(configs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate named config rows: %w", err)
	}

	return configs, nil
}

// scanNamedConfig scans a single row into a NamedConfig.
func scanNamedConfig(row pgx.Row) (*domain.NamedConfig, error) {
	var c domain.NamedConfig
	var regime string

	err := row.Scan(
		&c.Name, &c.SavedAt,
		&c.Config.LoanAmount, &c.Config.LoanRate, &c.Config.LoanTermMonths,
		&c.Config.TargetPayment, &c.Config.MinimumPayment,
		&c.Config.InitialSavings, &c.Config.MonthlySavingsPayment,
		&c.Config.InvestmentRate, &c.Config.TaxRate, &regime, &c.Config.ExcessToSavings,
	)
	if err != nil {
		return nil, err
	}

	c.Config.Regime = domain.Regime(regime)
	return &c, nil
}

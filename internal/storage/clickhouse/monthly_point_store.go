package clickhouse

import (
	"context"
	"fmt"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// MonthlyPointStore implements storage.MonthlyPointStore using ClickHouse.
type MonthlyPointStore struct {
	conn *Conn
}

// NewMonthlyPointStore creates a new MonthlyPointStore.
func NewMonthlyPointStore(conn *Conn) *MonthlyPointStore {
	return &MonthlyPointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MonthlyPointStore = (*MonthlyPointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, month_index).
func (s *MonthlyPointStore) InsertBulk(ctx context.Context, points []*domain.MonthlyPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID      string
		monthIndex int
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.RunID == "" || p.MonthIndex < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.MonthIndex}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.MonthIndex)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO monthly_points (
			run_id, month_index,
			loan_balance, savings_balance, pocket_money_balance,
			loan_payment, principal_payment, interest_payment,
			savings_contribution, pocket_money
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RunID, uint32(p.MonthIndex),
			p.LoanBalance, p.SavingsBalance, p.PocketMoneyBalance,
			p.LoanPayment, p.PrincipalPayment, p.InterestPayment,
			p.SavingsContribution, p.PocketMoney,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by month_index ASC.
func (s *MonthlyPointStore) GetByRunID(ctx context.Context, runID string) ([]*domain.MonthlyPoint, error) {
	query := `
		SELECT run_id, month_index,
			loan_balance, savings_balance, pocket_money_balance,
			loan_payment, principal_payment, interest_payment,
			savings_contribution, pocket_money
		FROM monthly_points
		WHERE run_id = ?
		ORDER BY month_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanMonthlyPoints(rows)
}

// GetByMonthRange retrieves points for a run within [start, end] (inclusive).
func (s *MonthlyPointStore) GetByMonthRange(ctx context.Context, runID string, start, end int) ([]*domain.MonthlyPoint, error) {
	query := `
		SELECT run_id, month_index,
			loan_balance, savings_balance, pocket_money_balance,
			loan_payment, principal_payment, interest_payment,
			savings_contribution, pocket_money
		FROM monthly_points
		WHERE run_id = ? AND month_index >= ? AND month_index <= ?
		ORDER BY month_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, uint32(start), uint32(end))
	if err != nil {
		return nil, fmt.Errorf("query by month range: %w", err)
	}
	defer rows.Close()

	return scanMonthlyPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *MonthlyPointStore) exists(ctx context.Context, runID string, monthIndex int) (bool, error) {
	query := `
		SELECT count(*) FROM monthly_points
		WHERE run_id = ? AND month_index = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, uint32(monthIndex)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts clickhouse row iteration for scanning helpers.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanMonthlyPoints scans multiple rows into a slice.
func scanMonthlyPoints(rows chRows) ([]*domain.MonthlyPoint, error) {
	var points []*domain.MonthlyPoint

	for rows.Next() {
		var p domain.MonthlyPoint
		var monthIndex uint32

		err := rows.Scan(
			&p.RunID, &monthIndex,
			&p.LoanBalance, &p.SavingsBalance, &p.PocketMoneyBalance,
			&p.LoanPayment, &p.PrincipalPayment, &p.InterestPayment,
			&p.SavingsContribution, &p.PocketMoney,
		)
		if err != nil {
			return nil, fmt.Errorf("scan monthly point row: %w", err)
		}

		p.MonthIndex = int(monthIndex)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly point rows: %w", err)
	}

	return points, nil
}

// Package simulation drives the month-by-month debt-vs-investment
// projection: an optional month-zero lump sum followed by a fold of the
// transition engine over the loan term.
package simulation

import (
	"math"

	"github.com/cjllanwarne/payoff-calculator/internal/amortize"
	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/engine"
)

// NewConfig validates the loan terms and returns a copy of cfg with the
// minimum fully-amortizing payment filled in. This is the one place inputs
// are validated; the engine and driver trust what comes out of here.
func NewConfig(cfg domain.Config) (domain.Config, error) {
	minPayment, err := amortize.MinimumPayment(cfg.LoanAmount, cfg.LoanRate, cfg.LoanTermMonths)
	if err != nil {
		return domain.Config{}, err
	}

	cfg.MinimumPayment = minPayment
	return cfg, nil
}

// Simulate runs the full projection for one configuration.
//
// Index 0 of every output sequence is the initial condition before month 1
// is processed. When lumpSum > 0, the lump sum (clamped to both the savings
// balance and the loan principal) is applied there as an immediate principal
// reduction and matching savings debit, and it consumes the first monthly
// slot: the engine then runs LoanTermMonths-1 months. Without a lump sum the
// engine runs the full LoanTermMonths.
//
// The loan may reach zero mid-run; the engine keeps running for the whole
// term, with later months satisfied by payoff reinvestment into savings.
func Simulate(cfg domain.Config, lumpSum float64) *domain.SimulationResult {
	loan := domain.LoanState{Balance: cfg.LoanAmount}
	savings := domain.SavingsState{Balance: cfg.InitialSavings}

	startMonth := 0
	initialPayment := 0.0
	if lumpSum > 0 {
		actual := math.Min(lumpSum, math.Min(savings.Balance, loan.Balance))
		loan.Balance -= actual
		loan.TotalPrincipalPaid += actual
		savings.Balance -= actual
		initialPayment = actual
		startMonth = 1
	}

	months := cfg.LoanTermMonths - startMonth
	result := &domain.SimulationResult{
		LoanBalance:          make([]float64, 1, months+1),
		SavingsBalance:       make([]float64, 1, months+1),
		PocketMoneyBalance:   make([]float64, 1, months+1),
		LoanPayments:         make([]float64, 1, months+1),
		PrincipalPayments:    make([]float64, 1, months+1),
		InterestPayments:     make([]float64, 1, months+1),
		SavingsContributions: make([]float64, 1, months+1),
		PocketMoney:          make([]float64, 1, months+1),
	}
	result.LoanBalance[0] = loan.Balance
	result.SavingsBalance[0] = savings.Balance
	result.LoanPayments[0] = initialPayment
	result.PrincipalPayments[0] = initialPayment

	for month := startMonth; month < cfg.LoanTermMonths; month++ {
		monthly := engine.Advance(cfg, loan, savings)
		loan = monthly.NewLoanState
		savings = monthly.NewSavingsState

		result.LoanBalance = append(result.LoanBalance, loan.Balance)
		result.SavingsBalance = append(result.SavingsBalance, savings.Balance)
		result.PocketMoneyBalance = append(result.PocketMoneyBalance, savings.TotalPocketMoney)
		result.LoanPayments = append(result.LoanPayments, monthly.InterestPayment+monthly.PrincipalPayment)
		result.PrincipalPayments = append(result.PrincipalPayments, monthly.PrincipalPayment)
		result.InterestPayments = append(result.InterestPayments, monthly.InterestPayment)
		result.SavingsContributions = append(result.SavingsContributions, monthly.SavingsContribution)
		result.PocketMoney = append(result.PocketMoney, monthly.PocketMoney)
	}

	result.TotalPocketMoney = savings.TotalPocketMoney
	return result
}

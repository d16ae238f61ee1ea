// Package engine computes one month of the debt-vs-investment state
// transition. Advance is pure and deterministic: given a configuration and
// the prior month's loan and savings states it returns fresh replacement
// states plus the month's flow decomposition, with no side effects.
package engine

import (
	"math"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

// Advance processes one month of payments and returns the new state.
// Steps, in fixed order (later steps depend on earlier balances):
//  1. Accrue loan interest on the outstanding balance
//  2. Split the target payment between loan need and overflow
//  3. Route excess above the minimum to savings when configured
//  4. CD regime: return on the start-of-month balance, taxed on accrual
//  5. Withdraw from savings toward the loan, clamped to what is available
//  6. Stock regime: return on the balance left after the withdrawal
//  7. Reinvest the unspent target once the loan is paid off
//  8. Compute pocket money from the out-of-pocket shortfall vs the minimum
//  9. Build the replacement loan and savings states
func Advance(cfg domain.Config, loan domain.LoanState, savings domain.SavingsState) domain.MonthlyResult {
	monthlyLoanRate := cfg.LoanRate / 12
	monthlyInvestmentRate := cfg.InvestmentRate / 12

	// 1. Interest accrues before any payment is applied.
	interest := loan.Balance * monthlyLoanRate

	// 2. The target payment covers the loan first; totalNeeded is the amount
	// that would clear the loan entirely this month.
	totalNeeded := loan.Balance + interest
	targetToLoan := math.Min(cfg.TargetPayment, totalNeeded)

	// 3. Excess routing caps the loan payment at the contractual minimum and
	// sends the rest to savings. This happens before any return computation
	// so routed dollars earn nothing this month.
	contribution := 0.0
	if cfg.ExcessToSavings && loan.Balance > 0 && cfg.TargetPayment > cfg.MinimumPayment {
		targetToLoan = math.Min(cfg.MinimumPayment, targetToLoan)
		contribution = cfg.TargetPayment - cfg.MinimumPayment
	}

	targetInterest := math.Min(interest, targetToLoan)
	targetPrincipal := targetToLoan - targetInterest

	var returns, tax, withdrawal float64

	// 4. CD returns accrue on the balance as it stood at the start of the
	// month; the tax on them is due immediately, withdrawal or not.
	if cfg.Regime == domain.RegimeCD && savings.Balance > 0 {
		returns = savings.Balance * monthlyInvestmentRate
		tax = returns * cfg.TaxRate
	}

	// 5. Optional extra payment from savings. Excess routing already decided
	// this month's allocation, so the two never combine.
	interestPaid := targetInterest
	principalPaid := targetPrincipal
	remainingNeed := totalNeeded - targetToLoan

	if loan.Balance > 0 && cfg.MonthlySavingsPayment > 0 && savings.Balance > 0 && !cfg.ExcessToSavings {
		available := savings.Balance
		if cfg.Regime == domain.RegimeStock {
			// Withdrawal tax comes out of the same pot, so only the pre-tax
			// share of the balance is actually spendable.
			available = savings.Balance / (1 + cfg.TaxRate)
		}

		withdrawal = math.Min(cfg.MonthlySavingsPayment, math.Min(available, remainingNeed))
		if withdrawal > 0 {
			if cfg.Regime == domain.RegimeStock {
				tax = withdrawal * cfg.TaxRate
			}
			// Cover any interest the target left unpaid, then principal.
			shortfall := interest - targetInterest
			toInterest := math.Min(withdrawal, shortfall)
			interestPaid += toInterest
			principalPaid += withdrawal - toInterest
		}
	}

	// 6. Stock returns are earned only on what stays invested this month.
	if cfg.Regime == domain.RegimeStock && savings.Balance > 0 {
		returns = (savings.Balance - withdrawal - tax) * monthlyInvestmentRate
	}

	// Computed in this form so a withdrawal that exactly meets the remaining
	// need lands on zero rather than a float residue.
	newLoanBalance := remainingNeed - withdrawal
	if newLoanBalance < 0 {
		newLoanBalance = 0
	}

	// 7. Once the loan is cleared, whatever part of the target did not go to
	// the loan is contributed to savings. This is the single contribution
	// figure for the month; a routed excess is subsumed, not added twice.
	if newLoanBalance == 0 && targetToLoan < cfg.TargetPayment {
		contribution = cfg.TargetPayment - targetToLoan
	}

	// 8. Pocket money is what staying below the contractual minimum saved the
	// payer this month. Out-of-pocket covers target dollars only; amounts
	// withdrawn from savings do not count.
	outOfPocket := targetToLoan + contribution
	if outOfPocket > cfg.TargetPayment {
		outOfPocket = cfg.TargetPayment
	}
	pocketMoney := cfg.MinimumPayment - outOfPocket
	if pocketMoney < 0 {
		pocketMoney = 0
	}

	// 9. Fresh state values; the inputs are never mutated.
	newLoan := domain.LoanState{
		Balance:            newLoanBalance,
		TotalInterestPaid:  loan.TotalInterestPaid + interestPaid,
		TotalPrincipalPaid: loan.TotalPrincipalPaid + principalPaid,
	}

	newSavings := domain.SavingsState{
		Balance:          savings.Balance + returns - tax - withdrawal + contribution,
		TotalReturns:     savings.TotalReturns + returns,
		TotalTaxesPaid:   savings.TotalTaxesPaid + tax,
		TotalPocketMoney: savings.TotalPocketMoney + pocketMoney,
	}

	return domain.MonthlyResult{
		NewLoanState:        newLoan,
		NewSavingsState:     newSavings,
		InterestPayment:     interestPaid,
		PrincipalPayment:    principalPaid,
		InvestmentReturns:   returns,
		TaxPayment:          tax,
		PocketMoney:         pocketMoney,
		SavingsContribution: contribution,
	}
}

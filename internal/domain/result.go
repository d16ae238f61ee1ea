package domain

// MonthlyResult is one month's state transition: the replacement loan and
// savings states plus the decomposition of that month's flows.
type MonthlyResult struct {
	NewLoanState    LoanState    `json:"new_loan_state"`
	NewSavingsState SavingsState `json:"new_savings_state"`

	InterestPayment     float64 `json:"interest_payment"`
	PrincipalPayment    float64 `json:"principal_payment"`
	InvestmentReturns   float64 `json:"investment_returns"`
	TaxPayment          float64 `json:"tax_payment"`
	PocketMoney         float64 `json:"pocket_money"`
	SavingsContribution float64 `json:"savings_contribution"`
}

// SimulationResult holds the full time series of one run: eight parallel
// sequences of equal length plus the final cumulative pocket money scalar.
// Index 0 is the initial condition before month 1 is processed; when a lump
// sum was applied it is reflected there.
type SimulationResult struct {
	LoanBalance          []float64 `json:"loan_balance"`
	SavingsBalance       []float64 `json:"savings_balance"`
	PocketMoneyBalance   []float64 `json:"pocket_money_balance"`
	LoanPayments         []float64 `json:"loan_payments"`
	PrincipalPayments    []float64 `json:"principal_payments"`
	InterestPayments     []float64 `json:"interest_payments"`
	SavingsContributions []float64 `json:"savings_contributions"`
	PocketMoney          []float64 `json:"pocket_money"`
	TotalPocketMoney     float64   `json:"total_pocket_money"`
}

// Months returns the number of recorded entries.
func (r *SimulationResult) Months() int {
	return len(r.LoanBalance)
}

package domain

// SimulationRun is the persisted record of one completed simulation: the
// configuration snapshot it was run with and the reduced summary totals.
// The per-month series lives in MonthlyPoint rows keyed by RunID.
type SimulationRun struct {
	RunID     string  `json:"run_id"`
	Name      string  `json:"name"`
	Config    Config  `json:"config"`
	LumpSum   float64 `json:"lump_sum"`
	CreatedAt int64   `json:"created_at"` // Unix ms

	// Summary totals reduced from the output series.
	Months              int     `json:"months"`
	TotalInterestPaid   float64 `json:"total_interest_paid"`
	TotalPrincipalPaid  float64 `json:"total_principal_paid"`
	TotalContributions  float64 `json:"total_contributions"`
	TotalPocketMoney    float64 `json:"total_pocket_money"`
	FinalLoanBalance    float64 `json:"final_loan_balance"`
	FinalSavingsBalance float64 `json:"final_savings_balance"`
}

// MonthlyPoint is one recorded month of a run's time series.
// MonthIndex 0 is the initial condition entry.
type MonthlyPoint struct {
	RunID      string `json:"run_id"`
	MonthIndex int    `json:"month_index"`

	LoanBalance         float64 `json:"loan_balance"`
	SavingsBalance      float64 `json:"savings_balance"`
	PocketMoneyBalance  float64 `json:"pocket_money_balance"`
	LoanPayment         float64 `json:"loan_payment"`
	PrincipalPayment    float64 `json:"principal_payment"`
	InterestPayment     float64 `json:"interest_payment"`
	SavingsContribution float64 `json:"savings_contribution"`
	PocketMoney         float64 `json:"pocket_money"`
}

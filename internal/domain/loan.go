package domain

// LoanState is the loan side of the simulation state. The engine never
// mutates a LoanState in place; each month produces a fresh value.
type LoanState struct {
	Balance            float64 `json:"balance"`
	TotalInterestPaid  float64 `json:"total_interest_paid"`
	TotalPrincipalPaid float64 `json:"total_principal_paid"`
}

// SavingsState is the savings/investment side of the simulation state.
type SavingsState struct {
	Balance          float64 `json:"balance"`
	TotalReturns     float64 `json:"total_returns"`
	TotalTaxesPaid   float64 `json:"total_taxes_paid"`
	TotalPocketMoney float64 `json:"total_pocket_money"`
}

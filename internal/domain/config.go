package domain

// Regime identifies how investment returns are taxed.
type Regime string

// Regime constants.
const (
	// RegimeCD taxes returns as they accrue, regardless of withdrawal (CD-like).
	RegimeCD Regime = "CD"
	// RegimeStock taxes only amounts withdrawn, not unrealized gains (stock-like).
	RegimeStock Regime = "STOCK"
)

// Config holds the parameters of one simulation run. Immutable once built.
// All rates are decimal fractions (0.05, not 5); all monetary fields are
// non-negative dollars. MinimumPayment is the fully-amortizing payment for
// the loan terms, precomputed by the amortize package and carried alongside
// the raw inputs.
type Config struct {
	LoanAmount            float64 `json:"loan_amount"`
	LoanRate              float64 `json:"loan_rate"`
	LoanTermMonths        int     `json:"loan_term_months"`
	TargetPayment         float64 `json:"target_payment"`
	MinimumPayment        float64 `json:"minimum_payment"`
	InitialSavings        float64 `json:"initial_savings"`
	MonthlySavingsPayment float64 `json:"monthly_savings_payment"`
	InvestmentRate        float64 `json:"investment_rate"`
	TaxRate               float64 `json:"tax_rate"`
	Regime                Regime  `json:"investment_type"`
	// ExcessToSavings routes any target payment above the minimum to savings
	// instead of extra principal.
	ExcessToSavings bool `json:"excess_to_savings"`
}

// NamedConfig is a saved configuration record: a user-chosen name, a save
// timestamp, and the plain key/value parameter set.
type NamedConfig struct {
	Name    string `json:"name"`
	SavedAt int64  `json:"saved_at"` // Unix ms
	Config  Config `json:"config"`
}

package reporting

import "time"

// Report summarizes all stored simulation runs.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunCount    int

	// Run summaries (sorted by created_at, run_id)
	Runs []RunSummaryRow
}

// RunSummaryRow represents one row in the run summary table.
type RunSummaryRow struct {
	RunID   string
	Name    string
	LumpSum float64
	Months  int

	// PayoffMonth is the first month index where the loan balance reached
	// zero, or -1 if the loan was never cleared within the term.
	PayoffMonth int

	TotalInterestPaid   float64
	TotalPrincipalPaid  float64
	TotalContributions  float64
	TotalPocketMoney    float64
	FinalLoanBalance    float64
	FinalSavingsBalance float64
}

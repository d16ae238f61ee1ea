package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Payoff Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d\n\n", r.RunCount))

	// Run Summaries
	sb.WriteString("## Run Summary\n\n")
	if len(r.Runs) > 0 {
		sb.WriteString("| Name | Run | LumpSum | Months | Payoff | Interest | Principal | Contributions | PocketMoney | FinalLoan | FinalSavings |\n")
		sb.WriteString("|------|-----|---------|--------|--------|----------|-----------|---------------|-------------|-----------|-------------|\n")
		for _, row := range r.Runs {
			payoff := "never"
			if row.PayoffMonth >= 0 {
				payoff = fmt.Sprintf("%d", row.PayoffMonth)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %d | %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				row.Name, shortID(row.RunID), row.LumpSum, row.Months, payoff,
				row.TotalInterestPaid, row.TotalPrincipalPaid, row.TotalContributions,
				row.TotalPocketMoney, row.FinalLoanBalance, row.FinalSavingsBalance))
		}
	} else {
		sb.WriteString("No runs recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// shortID truncates a run ID for table display.
func shortID(runID string) string {
	if len(runID) <= 12 {
		return runID
	}
	return runID[:12]
}

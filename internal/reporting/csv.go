package reporting

import (
	"fmt"
	"strings"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

// RenderCSV renders one run's monthly series as CSV string.
func RenderCSV(points []*domain.MonthlyPoint) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,month_index,loan_balance,savings_balance,pocket_money_balance,")
	sb.WriteString("loan_payment,principal_payment,interest_payment,savings_contribution,pocket_money\n")

	// Rows
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			p.RunID,
			p.MonthIndex,
			p.LoanBalance,
			p.SavingsBalance,
			p.PocketMoneyBalance,
			p.LoanPayment,
			p.PrincipalPayment,
			p.InterestPayment,
			p.SavingsContribution,
			p.PocketMoney,
		))
	}

	return sb.String()
}

package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

// ComputeRunID computes a deterministic run identifier using SHA256 over the
// run name and every configuration field, so the same inputs always map to
// the same run record. Returns a hex-encoded hash (64 characters).
func ComputeRunID(name string, cfg domain.Config, lumpSum float64) string {
	data := fmt.Sprintf("%s|%.6f|%.10f|%d|%.6f|%.6f|%.6f|%.6f|%.10f|%.10f|%s|%t|%.6f",
		name,
		cfg.LoanAmount,
		cfg.LoanRate,
		cfg.LoanTermMonths,
		cfg.TargetPayment,
		cfg.MinimumPayment,
		cfg.InitialSavings,
		cfg.MonthlySavingsPayment,
		cfg.InvestmentRate,
		cfg.TaxRate,
		string(cfg.Regime),
		cfg.ExcessToSavings,
		lumpSum,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

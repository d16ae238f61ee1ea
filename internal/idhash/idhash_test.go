package idhash

import (
	"testing"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

func TestComputeRunID(t *testing.T) {
	cfg := domain.Config{
		LoanAmount:     100000,
		LoanRate:       0.05,
		LoanTermMonths: 360,
		TargetPayment:  600,
		MinimumPayment: 536.82,
		InvestmentRate: 0.07,
		TaxRate:        0.25,
		Regime:         domain.RegimeCD,
	}

	id1 := ComputeRunID("baseline", cfg, 0)
	id2 := ComputeRunID("baseline", cfg, 0)

	if len(id1) != 64 {
		t.Errorf("expected 64-character hash, got %d", len(id1))
	}
	if id1 != id2 {
		t.Error("same inputs produced different run IDs")
	}
}

func TestComputeRunID_Uniqueness(t *testing.T) {
	base := domain.Config{
		LoanAmount:     100000,
		LoanRate:       0.05,
		LoanTermMonths: 360,
		TargetPayment:  600,
		MinimumPayment: 536.82,
		Regime:         domain.RegimeCD,
	}

	ids := map[string]string{}
	record := func(label, id string) {
		if prev, ok := ids[id]; ok {
			t.Errorf("collision between %q and %q", prev, label)
		}
		ids[id] = label
	}

	record("baseline", ComputeRunID("baseline", base, 0))
	record("renamed", ComputeRunID("renamed", base, 0))
	record("lump sum", ComputeRunID("baseline", base, 2000))

	stock := base
	stock.Regime = domain.RegimeStock
	record("stock", ComputeRunID("baseline", stock, 0))

	routed := base
	routed.ExcessToSavings = true
	record("routed", ComputeRunID("baseline", routed, 0))
}

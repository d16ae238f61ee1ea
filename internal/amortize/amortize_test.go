package amortize

import (
	"errors"
	"math"
	"testing"
)

// assertFullyAmortizes verifies the defining correctness property: paying the
// computed amount every month leaves the balance within rounding of zero at
// term end.
func assertFullyAmortizes(t *testing.T, principal, rate float64, months int) float64 {
	t.Helper()

	payment, err := MinimumPayment(principal, rate, months)
	if err != nil {
		t.Fatalf("MinimumPayment(%v, %v, %d) failed: %v", principal, rate, months, err)
	}

	balance := principal
	monthlyRate := rate / 12
	for i := 0; i < months; i++ {
		interest := balance * monthlyRate
		balance -= payment - interest
	}

	if math.Abs(balance) > 0.01 {
		t.Errorf("payment %.2f does not fully amortize %.2f @ %.2f%% over %d months: residual %.6f",
			payment, principal, rate*100, months, balance)
	}
	return payment
}

func TestMinimumPayment_ZeroInterest(t *testing.T) {
	payment, err := MinimumPayment(12000, 0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment != 1000.0 {
		t.Errorf("expected exactly 1000.0, got %v", payment)
	}
}

func TestMinimumPayment_StandardMortgage(t *testing.T) {
	payment := assertFullyAmortizes(t, 100000, 0.05, 360)

	// Known correct payment for these terms.
	if math.Abs(payment-536.82) > 0.01 {
		t.Errorf("expected 536.82, got %.2f", payment)
	}
}

func TestMinimumPayment_ShortTermHighInterest(t *testing.T) {
	payment := assertFullyAmortizes(t, 10000, 0.12, 12)

	if math.Abs(payment-888.49) > 0.01 {
		t.Errorf("expected 888.49, got %.2f", payment)
	}
}

func TestMinimumPayment_OneMonthLoan(t *testing.T) {
	payment, err := MinimumPayment(1000, 0.12, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := 1000 * (1 + 0.12/12)
	if math.Abs(payment-expected) > 0.01 {
		t.Errorf("expected %.2f, got %.2f", expected, payment)
	}
}

func TestMinimumPayment_ExtremeInputs(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
	}{
		{"very small loan", 100, 0.01, 12},
		{"very large loan", 1_000_000_000, 0.03, 360},
		{"very high interest", 10000, 0.30, 12},
		{"tiny rate", 50000, 0.0001, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := assertFullyAmortizes(t, tt.principal, tt.rate, tt.months)
			if payment <= 0 {
				t.Errorf("expected positive payment, got %v", payment)
			}
		})
	}
}

func TestMinimumPayment_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
	}{
		{"negative amount", -1000, 0.05, 12},
		{"zero amount", 0, 0.05, 12},
		{"negative rate", 1000, -0.05, 12},
		{"zero months", 1000, 0.05, 0},
		{"negative months", 1000, 0.05, -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MinimumPayment(tt.principal, tt.rate, tt.months)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

// Package amortize computes the minimum fully-amortizing monthly payment for
// a fixed-rate loan. It is the single validation boundary of the simulation
// core: downstream components assume inputs that passed through here.
package amortize

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for non-positive principal, negative rate,
// or non-positive term.
var ErrInvalidInput = errors.New("invalid input")

// denominatorEpsilon guards the annuity formula against near-zero-rate
// degeneracy despite a positive annual rate.
const denominatorEpsilon = 1e-10

// MinimumPayment returns the fixed monthly payment that fully amortizes a
// loan of the given principal over termMonths at the given annual rate.
// The annual rate is a decimal fraction (0.05, not 5) and is converted to a
// monthly rate by simple division by 12, never by compound conversion.
func MinimumPayment(principal, annualRate float64, termMonths int) (float64, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: loan amount must be positive, got %.2f", ErrInvalidInput, principal)
	}
	if annualRate < 0 {
		return 0, fmt.Errorf("%w: interest rate cannot be negative, got %.4f", ErrInvalidInput, annualRate)
	}
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: loan term must be positive, got %d", ErrInvalidInput, termMonths)
	}

	if annualRate == 0 {
		return principal / float64(termMonths), nil
	}

	monthlyRate := annualRate / 12
	growth := math.Pow(1+monthlyRate, float64(termMonths))
	denominator := growth - 1

	if math.Abs(denominator) < denominatorEpsilon {
		return principal * (1 + monthlyRate), nil
	}

	return principal * monthlyRate * growth / denominator, nil
}

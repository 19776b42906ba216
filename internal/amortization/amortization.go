// Package amortization produces fixed-payment (annuity) installment schedules.
package amortization

import (
	"errors"
	"math"

	"github.com/rferreira/loan-ledger/internal/models"
)

var (
	// ErrInvalidPrincipal signals a non-positive principal.
	ErrInvalidPrincipal = errors.New("principal must be positive")
	// ErrInvalidRate signals a negative annual rate.
	ErrInvalidRate = errors.New("annual rate must not be negative")
	// ErrInvalidTerm signals a term below one month.
	ErrInvalidTerm = errors.New("term must be at least one month")
)

// Schedule generates the full installment schedule for a principal, annual
// interest rate (fraction) and term in months. The schedule is fully
// materialized: downstream display needs random access and totals.
//
// The final period's remaining balance is ~0 within floating-point tolerance;
// no final-period cent correction is applied, so a sub-cent residue may remain.
func Schedule(principal, annualRate float64, months int) ([]models.Installment, error) {
	if principal <= 0 {
		return nil, ErrInvalidPrincipal
	}
	if annualRate < 0 {
		return nil, ErrInvalidRate
	}
	if months <= 0 {
		return nil, ErrInvalidTerm
	}

	monthlyRate := annualRate / 12

	// The annuity formula is undefined at rate zero and degrades to a plain
	// even split.
	var payment float64
	if monthlyRate == 0 {
		payment = principal / float64(months)
	} else {
		factor := math.Pow(1+monthlyRate, float64(months))
		payment = principal * monthlyRate * factor / (factor - 1)
	}

	schedule := make([]models.Installment, months)
	remaining := principal
	for i := 1; i <= months; i++ {
		interest := remaining * monthlyRate
		principalPart := payment - interest
		remaining -= principalPart
		schedule[i-1] = models.Installment{
			Number:           i,
			Payment:          payment,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		}
	}
	return schedule, nil
}

// Totals sums a schedule into the figures shown alongside it.
func Totals(schedule []models.Installment) (totalPaid, totalInterest float64) {
	for _, inst := range schedule {
		totalPaid += inst.Payment
		totalInterest += inst.Interest
	}
	return totalPaid, totalInterest
}

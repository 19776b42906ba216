// Package scoring derives a risk-adjusted interest rate and lending ceiling
// for a candidate loan from the candidate itself and prior records of the
// same company. Scoring is deterministic and free of side effects.
package scoring

import (
	"math"

	"github.com/rferreira/loan-ledger/internal/models"
)

// Scoring policy constants.
const (
	baseScore = 700.0

	highAmountThreshold = 10000.0
	highAmountPenalty   = 50.0
	lowAmountThreshold  = 5000.0
	lowAmountBonus      = 30.0

	historyWeight = 100.0

	lowRiskBreakpoint    = 800.0
	mediumRiskBreakpoint = 700.0
)

// Score computes a credit assessment for a candidate loan. History entries
// are matched by company name; an empty history contributes nothing.
func Score(candidate models.LoanAccount, history []models.LoanAccount) models.CreditAssessment {
	score := baseScore

	// Amounts exactly at a threshold stay in the unadjusted middle band.
	if candidate.LoanAmount > highAmountThreshold {
		score -= highAmountPenalty
	} else if candidate.LoanAmount < lowAmountThreshold {
		score += lowAmountBonus
	}

	var prior, approved int
	for _, h := range history {
		if h.Name != candidate.Name {
			continue
		}
		prior++
		if h.Approved {
			approved++
		}
	}
	if prior > 0 {
		paymentRate := float64(approved) / float64(prior)
		score += paymentRate * historyWeight
	}

	assessment := models.CreditAssessment{Score: int(math.Round(score))}
	switch {
	case score >= lowRiskBreakpoint:
		assessment.RiskLevel = models.RiskLow
		assessment.InterestRate = 0.05
		assessment.MaxLoanAmount = candidate.LoanAmount * 2.0
	case score >= mediumRiskBreakpoint:
		assessment.RiskLevel = models.RiskMedium
		assessment.InterestRate = 0.08
		assessment.MaxLoanAmount = candidate.LoanAmount * 1.5
	default:
		assessment.RiskLevel = models.RiskHigh
		assessment.InterestRate = 0.12
		assessment.MaxLoanAmount = candidate.LoanAmount
	}
	return assessment
}

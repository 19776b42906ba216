package models

// Risk tiers assigned by the credit scoring engine.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// CreditAssessment is the scoring engine's recommendation for a candidate loan.
// It is derived on demand and never persisted.
type CreditAssessment struct {
	Score         int     `json:"score"`
	RiskLevel     string  `json:"risk_level"`
	InterestRate  float64 `json:"interest_rate"` // annual rate as a fraction, e.g. 0.08
	MaxLoanAmount float64 `json:"max_loan_amount"`
}

package models

// Installment is one period of an amortization schedule, decomposed into its
// principal and interest components.
type Installment struct {
	Number           int     `json:"number"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

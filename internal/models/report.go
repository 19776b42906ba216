package models

// PortfolioSummary holds the headline figures over all live accounts.
//
// TotalRepaid sums the current balances; with both debt and credit-surplus
// accounts present this is a net figure rather than money actually collected.
// The name is kept for continuity with the existing reports.
type PortfolioSummary struct {
	TotalLent   float64 `json:"total_lent"`
	TotalRepaid float64 `json:"total_repaid"`
	NetPosition float64 `json:"net_position"`
}

// LocationStats aggregates the loan portfolio for one location.
type LocationStats struct {
	Count           int     `json:"count"`
	TotalLoanAmount float64 `json:"total_loan_amount"`
}

// AmountStats describes the distribution of originated loan amounts.
type AmountStats struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

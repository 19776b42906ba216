// Package reporting folds live loan accounts into summary figures. All
// functions are read-side folds over a caller-supplied slice; soft-deleted
// accounts are expected to have been filtered out by the storage layer.
package reporting

import "github.com/rferreira/loan-ledger/internal/models"

// TotalLent sums the originated loan amounts.
func TotalLent(accounts []models.LoanAccount) float64 {
	var total float64
	for _, a := range accounts {
		total += a.LoanAmount
	}
	return total
}

// TotalRepaid sums the current balances. This is a net figure, not strictly
// money collected; the name follows the existing reports.
func TotalRepaid(accounts []models.LoanAccount) float64 {
	var total float64
	for _, a := range accounts {
		total += a.Balance
	}
	return total
}

// NetPosition is TotalRepaid minus TotalLent.
func NetPosition(accounts []models.LoanAccount) float64 {
	return TotalRepaid(accounts) - TotalLent(accounts)
}

// Summarize bundles the headline figures into one report value.
func Summarize(accounts []models.LoanAccount) models.PortfolioSummary {
	lent := TotalLent(accounts)
	repaid := TotalRepaid(accounts)
	return models.PortfolioSummary{
		TotalLent:   lent,
		TotalRepaid: repaid,
		NetPosition: repaid - lent,
	}
}

// Delinquents returns the accounts carrying debt, in storage order.
func Delinquents(accounts []models.LoanAccount) []models.LoanAccount {
	var out []models.LoanAccount
	for _, a := range accounts {
		if a.Balance < 0 {
			out = append(out, a)
		}
	}
	return out
}

// ByLocation aggregates count and total loan amount per location.
func ByLocation(accounts []models.LoanAccount) map[string]models.LocationStats {
	out := make(map[string]models.LocationStats)
	for _, a := range accounts {
		stats := out[a.Location]
		stats.Count++
		stats.TotalLoanAmount += a.LoanAmount
		out[a.Location] = stats
	}
	return out
}

// AmountStats computes average, max and min over the originated loan amounts.
// The zero value is returned for an empty portfolio.
func AmountStats(accounts []models.LoanAccount) models.AmountStats {
	if len(accounts) == 0 {
		return models.AmountStats{}
	}
	stats := models.AmountStats{
		Max: accounts[0].LoanAmount,
		Min: accounts[0].LoanAmount,
	}
	var total float64
	for _, a := range accounts {
		total += a.LoanAmount
		if a.LoanAmount > stats.Max {
			stats.Max = a.LoanAmount
		}
		if a.LoanAmount < stats.Min {
			stats.Min = a.LoanAmount
		}
	}
	stats.Average = total / float64(len(accounts))
	return stats
}

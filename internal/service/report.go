package service

import (
	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/rferreira/loan-ledger/internal/reporting"
)

// Portfolio returns the headline lending figures over all live accounts
func (s *Service) Portfolio() (*models.PortfolioSummary, error) {
	accounts, err := s.store.ListLiveAccounts()
	if err != nil {
		return nil, err
	}
	summary := reporting.Summarize(accounts)
	return &summary, nil
}

// Delinquents lists the live accounts carrying debt
func (s *Service) Delinquents() ([]models.LoanAccount, error) {
	accounts, err := s.store.ListLiveAccounts()
	if err != nil {
		return nil, err
	}
	return reporting.Delinquents(accounts), nil
}

// Locations aggregates the portfolio per location
func (s *Service) Locations() (map[string]models.LocationStats, error) {
	accounts, err := s.store.ListLiveAccounts()
	if err != nil {
		return nil, err
	}
	return reporting.ByLocation(accounts), nil
}

// AmountStats describes the distribution of originated amounts
func (s *Service) AmountStats() (*models.AmountStats, error) {
	accounts, err := s.store.ListLiveAccounts()
	if err != nil {
		return nil, err
	}
	stats := reporting.AmountStats(accounts)
	return &stats, nil
}

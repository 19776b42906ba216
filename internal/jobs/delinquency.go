// Package jobs runs the scheduled background work of the ledger.
package jobs

import (
	"fmt"

	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/rferreira/loan-ledger/internal/reporting"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AccountLister supplies the live accounts to scan.
type AccountLister interface {
	ListLiveAccounts() ([]models.LoanAccount, error)
}

// ReportMailer delivers the daily summary.
type ReportMailer interface {
	SendDelinquencyReport(to string, delinquents []models.LoanAccount, summary models.PortfolioSummary) error
}

// DelinquencyScanner periodically folds the live accounts into a delinquency
// summary, logs it, and mails it when a recipient is configured.
type DelinquencyScanner struct {
	store     AccountLister
	mailer    ReportMailer
	recipient string
	schedule  string
	log       *logrus.Logger
	cron      *cron.Cron
}

// NewDelinquencyScanner creates a scanner with the given cron schedule
func NewDelinquencyScanner(store AccountLister, mailer ReportMailer, recipient, schedule string, log *logrus.Logger) *DelinquencyScanner {
	return &DelinquencyScanner{
		store:     store,
		mailer:    mailer,
		recipient: recipient,
		schedule:  schedule,
		log:       log,
		cron:      cron.New(),
	}
}

// Start registers the scan and starts the scheduler
func (s *DelinquencyScanner) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		return fmt.Errorf("failed to schedule delinquency scan: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Delinquency scan scheduled: %s", s.schedule)
	return nil
}

// Stop halts the scheduler
func (s *DelinquencyScanner) Stop() {
	s.cron.Stop()
}

// Run executes one scan immediately.
func (s *DelinquencyScanner) Run() {
	accounts, err := s.store.ListLiveAccounts()
	if err != nil {
		s.log.Errorf("Delinquency scan failed to list accounts: %v", err)
		return
	}

	delinquents := reporting.Delinquents(accounts)
	summary := reporting.Summarize(accounts)
	s.log.Infof("Delinquency scan: %d of %d accounts in debt, net position %.2f",
		len(delinquents), len(accounts), summary.NetPosition)

	if s.recipient == "" || len(delinquents) == 0 {
		return
	}
	if err := s.mailer.SendDelinquencyReport(s.recipient, delinquents, summary); err != nil {
		s.log.Errorf("Failed to send delinquency report: %v", err)
	}
}

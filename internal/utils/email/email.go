package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rferreira/loan-ledger/internal/config"
	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendDelinquencyReport mails the daily delinquent-account summary to the
// configured recipient.
func (s *Sender) SendDelinquencyReport(to string, delinquents []models.LoanAccount, summary models.PortfolioSummary) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Delinquency Report %s", time.Now().Format("2006-01-02"))

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Accounts in debt: %d\n\n", len(delinquents)))
	for _, account := range delinquents {
		body.WriteString(fmt.Sprintf("%-30s %-12s outstanding %.2f\n",
			account.Name, account.FiscalID, -account.Balance))
	}
	body.WriteString(fmt.Sprintf(
		"\nTotal lent: %.2f\nTotal repaid: %.2f\nNet position: %.2f\n",
		summary.TotalLent, summary.TotalRepaid, summary.NetPosition,
	))
	body.WriteString("\nBest regards,\nLoan Ledger")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

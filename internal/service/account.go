package service

import (
	"github.com/rferreira/loan-ledger/internal/ledger"
	"github.com/rferreira/loan-ledger/internal/models"
)

// OriginateLoanDTO carries the data for a new loan account
type OriginateLoanDTO struct {
	FiscalID     string  `json:"fiscal_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	EmployeeName string  `json:"employee_name" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// OriginateLoan creates a loan account for a company. The approval flag is
// fixed at creation by the policy ceiling; the balance starts at zero until
// the company draws the loan.
func (s *Service) OriginateLoan(dto OriginateLoanDTO) (*models.LoanAccount, error) {
	if err := s.validate.Struct(dto); err != nil {
		return nil, err
	}

	account := models.NewLoanAccount(dto.FiscalID, dto.Name, dto.Location, dto.EmployeeName, dto.Amount)
	if err := s.store.CreateAccount(account); err != nil {
		return nil, err
	}

	s.log.Infof("Loan originated for %s (%s): %.2f, approved=%v",
		account.Name, account.FiscalID, account.LoanAmount, account.Approved)
	return account, nil
}

// Account looks up a live account by fiscal ID or name
func (s *Service) Account(key string) (*models.LoanAccount, error) {
	return s.store.FindAccount(key)
}

// ListAccounts returns all live accounts
func (s *Service) ListAccounts() ([]models.LoanAccount, error) {
	return s.store.ListLiveAccounts()
}

// DeleteAccount soft-deletes an account by fiscal ID or name
func (s *Service) DeleteAccount(key string) error {
	if err := s.store.SoftDeleteAccount(key); err != nil {
		return err
	}
	s.log.Infof("Account deleted: %s", key)
	return nil
}

// Deposit credits an amount to the account's balance
func (s *Service) Deposit(key string, amount float64) (*models.LoanAccount, error) {
	account, err := s.store.FindAccount(key)
	if err != nil {
		return nil, err
	}

	newBalance, err := ledger.Deposit(account.Balance, amount)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBalance(account.FiscalID, newBalance); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	s.log.Infof("Deposit of %.2f for %s, new balance %.2f", amount, account.FiscalID, newBalance)
	return account, nil
}

// DrawLoan debits a loan draw from the account's balance
func (s *Service) DrawLoan(key string, amount float64) (*models.LoanAccount, error) {
	account, err := s.store.FindAccount(key)
	if err != nil {
		return nil, err
	}

	newBalance, err := ledger.DrawLoan(account.Balance, amount)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBalance(account.FiscalID, newBalance); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	s.log.Infof("Loan draw of %.2f for %s, new balance %.2f", amount, account.FiscalID, newBalance)
	return account, nil
}

// PayDebt applies a debt payment. With clamp set, a payment above the
// outstanding debt is reduced to it instead of being rejected.
func (s *Service) PayDebt(key string, amount float64, clamp bool) (*models.LoanAccount, error) {
	account, err := s.store.FindAccount(key)
	if err != nil {
		return nil, err
	}

	newBalance, err := ledger.PayDebt(account.Balance, amount, clamp)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBalance(account.FiscalID, newBalance); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	s.log.Infof("Debt payment of %.2f for %s, new balance %.2f", amount, account.FiscalID, newBalance)
	return account, nil
}

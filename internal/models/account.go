package models

import "time"

// ApprovalCeiling is the policy limit above which a loan is originated as rejected.
const ApprovalCeiling = 100000.0

// LoanAccount represents a company that has taken a loan.
//
// Balance follows a signed convention: negative means outstanding debt owed to
// the lender, non-negative means no debt or a credit surplus.
type LoanAccount struct {
	ID           int64     `json:"id"`
	FiscalID     string    `json:"fiscal_id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	EmployeeName string    `json:"employee_name"`
	LoanAmount   float64   `json:"loan_amount"`
	Approved     bool      `json:"approved"`
	Balance      float64   `json:"balance"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewLoanAccount originates a loan account. The approval flag is derived from
// the loan amount at creation time and the balance starts at zero.
func NewLoanAccount(fiscalID, name, location, employeeName string, loanAmount float64) *LoanAccount {
	return &LoanAccount{
		FiscalID:     fiscalID,
		Name:         name,
		Location:     location,
		EmployeeName: employeeName,
		LoanAmount:   loanAmount,
		Approved:     loanAmount <= ApprovalCeiling,
		Balance:      0,
	}
}

// Package ledger is the single point where money moves on a loan account.
// All operations are pure arithmetic over a caller-supplied balance; the
// caller is responsible for reading the balance fresh and writing the result
// back through storage.
package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount signals a non-positive amount where positivity is required.
var ErrInvalidAmount = errors.New("amount must be positive")

// ExceedsDebtError signals a payment larger than the outstanding debt. It
// carries the maximum allowed payment so the caller can offer a clamp-and-retry.
type ExceedsDebtError struct {
	MaxPayment float64
}

func (e *ExceedsDebtError) Error() string {
	return fmt.Sprintf("payment exceeds outstanding debt: maximum allowed is %.2f", e.MaxPayment)
}

// ApplyDelta adds a signed delta to a balance. The result may be arbitrarily
// negative (growing debt) or positive (credit surplus).
func ApplyDelta(balance, delta float64) float64 {
	return balance + delta
}

// Deposit credits a positive amount to the balance.
func Deposit(balance, amount float64) (float64, error) {
	if amount <= 0 {
		return balance, ErrInvalidAmount
	}
	return ApplyDelta(balance, amount), nil
}

// DrawLoan debits a positive draw amount, pushing the balance toward debt.
func DrawLoan(balance, amount float64) (float64, error) {
	if amount <= 0 {
		return balance, ErrInvalidAmount
	}
	return ApplyDelta(balance, -amount), nil
}

// MaxPayment returns the outstanding debt as a positive number, zero when the
// account carries no debt.
func MaxPayment(balance float64) float64 {
	if balance >= 0 {
		return 0
	}
	return -balance
}

// PayDebt applies a debt payment. Payments above the outstanding debt are
// rejected unless the caller opts into clamping, in which case the amount is
// reduced to the outstanding debt. Paying down debt can never leave the
// balance positive: any rounding residue above zero is corrected back to
// exactly zero. A balance already at or above zero is never altered.
func PayDebt(balance, amount float64, clamp bool) (float64, error) {
	if amount <= 0 {
		return balance, ErrInvalidAmount
	}
	max := MaxPayment(balance)
	if amount > max {
		if !clamp {
			return balance, &ExceedsDebtError{MaxPayment: max}
		}
		amount = max
	}
	newBalance := ApplyDelta(balance, amount)
	// The correction targets rounding residue from paying down debt; an
	// account already at or above zero keeps its balance.
	if balance < 0 && newBalance > 0 {
		newBalance = 0
	}
	return newBalance, nil
}

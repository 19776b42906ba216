package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rferreira/loan-ledger/internal/models"
)

// Typed storage errors surfaced to the service layer.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateKey      = errors.New("account with this fiscal ID already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateAccount inserts a new loan account
func (r *Repository) CreateAccount(account *models.LoanAccount) error {
	query := `
		INSERT INTO ledger.accounts (fiscal_id, name, location, employee_name, loan_amount, approved, balance, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		account.FiscalID, account.Name, account.Location, account.EmployeeName,
		account.LoanAmount, account.Approved, account.Balance).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccount retrieves a live account by fiscal ID or name
func (r *Repository) FindAccount(key string) (*models.LoanAccount, error) {
	account := &models.LoanAccount{}
	query := `
		SELECT id, fiscal_id, name, location, employee_name, loan_amount, approved, balance, deleted, created_at, updated_at
		FROM ledger.accounts
		WHERE (fiscal_id = $1 OR name = $1) AND NOT deleted`
	err := r.db.QueryRow(query, key).
		Scan(&account.ID, &account.FiscalID, &account.Name, &account.Location,
			&account.EmployeeName, &account.LoanAmount, &account.Approved,
			&account.Balance, &account.Deleted, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// UpdateBalance writes a new balance for a live account
func (r *Repository) UpdateBalance(fiscalID string, newBalance float64) error {
	query := `
		UPDATE ledger.accounts
		SET balance = $2, updated_at = CURRENT_TIMESTAMP
		WHERE fiscal_id = $1 AND NOT deleted`
	result, err := r.db.Exec(query, fiscalID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListLiveAccounts returns all accounts that have not been soft-deleted
func (r *Repository) ListLiveAccounts() ([]models.LoanAccount, error) {
	query := `
		SELECT id, fiscal_id, name, location, employee_name, loan_amount, approved, balance, deleted, created_at, updated_at
		FROM ledger.accounts
		WHERE NOT deleted
		ORDER BY created_at`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.LoanAccount
	for rows.Next() {
		var account models.LoanAccount
		if err := rows.Scan(&account.ID, &account.FiscalID, &account.Name, &account.Location,
			&account.EmployeeName, &account.LoanAmount, &account.Approved,
			&account.Balance, &account.Deleted, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

// SoftDeleteAccount marks an account as deleted without removing the row.
// Task history and everything else is left untouched.
func (r *Repository) SoftDeleteAccount(key string) error {
	query := `
		UPDATE ledger.accounts
		SET deleted = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE (fiscal_id = $1 OR name = $1) AND NOT deleted`
	result, err := r.db.Exec(query, key)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// CreateUser creates a new office user
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO ledger.users (username, password_hash, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, created_at
		FROM ledger.users
		WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

package service

import (
	"errors"
	"io"
	"testing"

	"github.com/rferreira/loan-ledger/internal/cache"
	"github.com/rferreira/loan-ledger/internal/config"
	"github.com/rferreira/loan-ledger/internal/ledger"
	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/rferreira/loan-ledger/internal/repository"
	"github.com/sirupsen/logrus"
)

// MockStore is an in-memory Store with call tracking.
type MockStore struct {
	Accounts            []models.LoanAccount
	Tasks               []models.Task
	Users               []models.User
	UpdateBalanceCalled bool
	ListCalls           int
	ForceListError      bool
}

func (m *MockStore) CreateAccount(account *models.LoanAccount) error {
	for _, a := range m.Accounts {
		if a.FiscalID == account.FiscalID && !a.Deleted {
			return repository.ErrDuplicateKey
		}
	}
	account.ID = int64(len(m.Accounts) + 1)
	m.Accounts = append(m.Accounts, *account)
	return nil
}

func (m *MockStore) FindAccount(key string) (*models.LoanAccount, error) {
	for i := range m.Accounts {
		a := m.Accounts[i]
		if (a.FiscalID == key || a.Name == key) && !a.Deleted {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (m *MockStore) UpdateBalance(fiscalID string, newBalance float64) error {
	m.UpdateBalanceCalled = true
	for i := range m.Accounts {
		if m.Accounts[i].FiscalID == fiscalID && !m.Accounts[i].Deleted {
			m.Accounts[i].Balance = newBalance
			return nil
		}
	}
	return repository.ErrAccountNotFound
}

func (m *MockStore) ListLiveAccounts() ([]models.LoanAccount, error) {
	m.ListCalls++
	if m.ForceListError {
		return nil, errors.New("list error")
	}
	var live []models.LoanAccount
	for _, a := range m.Accounts {
		if !a.Deleted {
			live = append(live, a)
		}
	}
	return live, nil
}

func (m *MockStore) SoftDeleteAccount(key string) error {
	for i := range m.Accounts {
		a := &m.Accounts[i]
		if (a.FiscalID == key || a.Name == key) && !a.Deleted {
			a.Deleted = true
			return nil
		}
	}
	return repository.ErrAccountNotFound
}

func (m *MockStore) CreateTask(task *models.Task) error {
	task.ID = int64(len(m.Tasks) + 1)
	m.Tasks = append(m.Tasks, *task)
	return nil
}

func (m *MockStore) ListTasks() ([]models.Task, error) {
	return m.Tasks, nil
}

func (m *MockStore) ListTasksByFiscalID(fiscalID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range m.Tasks {
		if t.FiscalID == fiscalID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockStore) SetTaskCompleted(id int64, completed bool) (*models.Task, error) {
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			m.Tasks[i].Completed = completed
			task := m.Tasks[i]
			return &task, nil
		}
	}
	return nil, repository.ErrTaskNotFound
}

func (m *MockStore) DeleteTask(id int64) error {
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}
	return repository.ErrTaskNotFound
}

func (m *MockStore) CreateUser(user *models.User) error {
	for _, u := range m.Users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	user.ID = int64(len(m.Users) + 1)
	m.Users = append(m.Users, *user)
	return nil
}

func (m *MockStore) FindUserByUsername(username string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// MockRates returns a fixed annual rate.
type MockRates struct {
	Rate       float64
	ForceError bool
	Called     bool
}

func (m *MockRates) AnnualRate() (float64, error) {
	m.Called = true
	if m.ForceError {
		return 0, errors.New("rate service unavailable")
	}
	return m.Rate, nil
}

func newTestService(store *MockStore, rates RateSource) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret"}
	if rates == nil {
		rates = &MockRates{Rate: 0.08}
	}
	return NewService(store, log, cfg, cache.NewMemoryCache(), rates)
}

func TestOriginateLoanApproval(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	account, err := svc.OriginateLoan(OriginateLoanDTO{
		FiscalID: "501111111", Name: "Cafe Lisboa", Location: "Lisboa",
		EmployeeName: "Ana Marques", Amount: 50000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Approved {
		t.Errorf("expected loan at 50000 to be approved")
	}
	if account.Balance != 0 {
		t.Errorf("expected initial balance 0, got %.2f", account.Balance)
	}

	rejected, err := svc.OriginateLoan(OriginateLoanDTO{
		FiscalID: "502222222", Name: "Grande Obra", Location: "Porto",
		EmployeeName: "Rui Costa", Amount: 100001,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Approved {
		t.Errorf("expected loan above ceiling to be rejected")
	}
}

func TestOriginateLoanDuplicate(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	dto := OriginateLoanDTO{
		FiscalID: "501111111", Name: "Cafe Lisboa", Location: "Lisboa",
		EmployeeName: "Ana Marques", Amount: 10000,
	}
	if _, err := svc.OriginateLoan(dto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.OriginateLoan(dto); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestOriginateLoanValidation(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	if _, err := svc.OriginateLoan(OriginateLoanDTO{FiscalID: "1", Name: "X"}); err == nil {
		t.Errorf("expected validation error for missing fields")
	}
	if len(store.Accounts) != 0 {
		t.Errorf("store written on invalid input")
	}
}

func TestDepositWritesNewBalance(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Balance: -500},
	}}
	svc := newTestService(store, nil)

	account, err := svc.Deposit("501111111", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != -300 {
		t.Errorf("expected -300, got %.2f", account.Balance)
	}
	if store.Accounts[0].Balance != -300 {
		t.Errorf("balance not persisted, store has %.2f", store.Accounts[0].Balance)
	}
}

func TestDepositInvalidAmountDoesNotWrite(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Balance: 100},
	}}
	svc := newTestService(store, nil)

	if _, err := svc.Deposit("501111111", 0); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if store.UpdateBalanceCalled {
		t.Errorf("balance written on rejected deposit")
	}
}

func TestPayDebtExceedsKeepsBalance(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Balance: -500},
	}}
	svc := newTestService(store, nil)

	_, err := svc.PayDebt("501111111", 700, false)
	var exceeds *ledger.ExceedsDebtError
	if !errors.As(err, &exceeds) {
		t.Fatalf("expected ExceedsDebtError, got %v", err)
	}
	if exceeds.MaxPayment != 500 {
		t.Errorf("expected MaxPayment 500, got %.2f", exceeds.MaxPayment)
	}
	if store.UpdateBalanceCalled {
		t.Errorf("balance written on rejected payment")
	}
}

func TestPayDebtClampToZero(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Balance: -500},
	}}
	svc := newTestService(store, nil)

	account, err := svc.PayDebt("501111111", 700, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 0 {
		t.Errorf("expected balance exactly 0, got %.10f", account.Balance)
	}
}

func TestPayDebtClampOnSurplusKeepsBalance(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Balance: 100},
	}}
	svc := newTestService(store, nil)

	account, err := svc.PayDebt("501111111", 50, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 100 {
		t.Errorf("expected surplus to survive, got %.2f", account.Balance)
	}
	if store.Accounts[0].Balance != 100 {
		t.Errorf("surplus destroyed in store, got %.2f", store.Accounts[0].Balance)
	}
}

func TestLedgerOpsUnknownAccount(t *testing.T) {
	svc := newTestService(&MockStore{}, nil)

	if _, err := svc.Deposit("missing", 10); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("deposit: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.PayDebt("missing", 10, false); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("pay: expected ErrAccountNotFound, got %v", err)
	}
}

func TestAssessCreditUsesCache(t *testing.T) {
	store := &MockStore{Accounts: []models.LoanAccount{
		{FiscalID: "501111111", Name: "Cafe Lisboa", Approved: true, LoanAmount: 1000},
	}}
	svc := newTestService(store, nil)

	dto := AssessmentDTO{FiscalID: "501111111", Name: "Cafe Lisboa", Amount: 3000}
	first, err := svc.AssessCredit(dto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 700 + 30 low-amount + 100 perfect history = 830 -> LOW.
	if first.Score != 830 || first.RiskLevel != models.RiskLow {
		t.Fatalf("unexpected assessment: %+v", first)
	}

	second, err := svc.AssessCredit(dto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *second != *first {
		t.Errorf("cached assessment differs: %+v vs %+v", second, first)
	}
}

func TestSimulateLoanWithKeyRate(t *testing.T) {
	rates := &MockRates{Rate: 0.10}
	svc := newTestService(&MockStore{}, rates)

	result, err := svc.SimulateLoan(SimulationDTO{Principal: 12000, Months: 12, UseKeyRate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rates.Called {
		t.Errorf("expected key rate source to be consulted")
	}
	if result.AnnualRate != 0.10 {
		t.Errorf("expected rate 0.10, got %.4f", result.AnnualRate)
	}
	if len(result.Schedule) != 12 {
		t.Errorf("expected 12 installments, got %d", len(result.Schedule))
	}
}

func TestSimulateLoanKeyRateFailure(t *testing.T) {
	svc := newTestService(&MockStore{}, &MockRates{ForceError: true})

	if _, err := svc.SimulateLoan(SimulationDTO{Principal: 1000, Months: 6, UseKeyRate: true}); err == nil {
		t.Errorf("expected error when the rate service is unavailable")
	}
}

func TestCompareRates(t *testing.T) {
	svc := newTestService(&MockStore{}, nil)

	results, err := svc.CompareRates(10000, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(results))
	}
	if results[0].AnnualRate != 0.05 || results[2].AnnualRate != 0.12 {
		t.Errorf("unexpected tier rates: %.2f, %.2f", results[0].AnnualRate, results[2].AnnualRate)
	}
	if results[0].TotalInterest >= results[2].TotalInterest {
		t.Errorf("higher rate should cost more interest")
	}
}

func TestAddTaskRequiresLiveAccount(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	if _, err := svc.AddTask(TaskDTO{Description: "call them", FiscalID: "missing"}); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	store.Accounts = append(store.Accounts, models.LoanAccount{FiscalID: "501111111", Name: "Cafe Lisboa"})
	task, err := svc.AddTask(TaskDTO{Description: "call them", FiscalID: "501111111"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.FiscalID != "501111111" {
		t.Errorf("task bound to wrong account: %s", task.FiscalID)
	}
}

func TestDeleteAccountKeepsTasks(t *testing.T) {
	store := &MockStore{
		Accounts: []models.LoanAccount{{FiscalID: "501111111", Name: "Cafe Lisboa"}},
		Tasks:    []models.Task{{ID: 1, FiscalID: "501111111", Description: "review"}},
	}
	svc := newTestService(store, nil)

	if err := svc.DeleteAccount("501111111"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Account("501111111"); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected account gone from lookups, got %v", err)
	}
	tasks, err := svc.Tasks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("deleting an account must not touch task history, got %d tasks", len(tasks))
	}
}

func TestLoginRoundTrip(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Register("office", "hunter22"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := svc.Login("office", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Errorf("expected a token")
	}
	if _, err := svc.Login("office", "wrong"); err == nil {
		t.Errorf("expected login failure with wrong password")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Register("office", "hunter22"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register("office", "other-pass"); !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

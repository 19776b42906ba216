package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rferreira/loan-ledger/internal/amortization"
	"github.com/rferreira/loan-ledger/internal/ledger"
	"github.com/rferreira/loan-ledger/internal/repository"
	"github.com/rferreira/loan-ledger/internal/service"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	var exceeds *ledger.ExceedsDebtError
	if errors.As(err, &exceeds) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       exceeds.Error(),
			"max_payment": exceeds.MaxPayment,
		})
		return
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, repository.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, amortization.ErrInvalidPrincipal),
		errors.Is(err, amortization.ErrInvalidRate),
		errors.Is(err, amortization.ErrInvalidTerm),
		errors.As(err, &validationErrs):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles office-user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles authentication and returns a JWT token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateAccount originates a new loan account
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var dto service.OriginateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.OriginateLoan(dto)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// ListAccounts returns all live accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

// GetAccount returns one live account by fiscal ID or name
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Account(mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// DeleteAccount soft-deletes an account
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(mux.Vars(r)["key"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance returns an account's current balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Account(mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fiscal_id": account.FiscalID,
		"balance":   account.Balance,
	})
}

type amountRequest struct {
	Amount float64 `json:"amount"`
	Clamp  bool    `json:"clamp"`
}

// Deposit credits money to an account
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.Deposit(mux.Vars(r)["key"], req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Draw debits a loan draw from an account
func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.DrawLoan(mux.Vars(r)["key"], req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Pay applies a debt payment; the clamp flag opts into partial application
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.PayDebt(mux.Vars(r)["key"], req.Amount, req.Clamp)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Assess scores a candidate loan
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var dto service.AssessmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assessment, err := h.svc.AssessCredit(dto)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assessment)
}

// Simulate produces an installment schedule
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var dto service.SimulationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SimulateLoan(dto)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CompareRates simulates the same loan across the three policy rate tiers
func (h *Handler) CompareRates(w http.ResponseWriter, r *http.Request) {
	principal, err := strconv.ParseFloat(r.URL.Query().Get("principal"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid principal")
		return
	}
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid months")
		return
	}

	results, err := h.svc.CompareRates(principal, months)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// Portfolio returns the headline lending figures
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Portfolio()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Delinquents lists accounts carrying debt
func (h *Handler) Delinquents(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.Delinquents()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

// Locations returns per-location aggregates
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Locations()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// AmountStats returns the loan amount distribution
func (h *Handler) AmountStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.AmountStats()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// CreateTask attaches a follow-up task to an account
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var dto service.TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.svc.AddTask(dto)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// ListTasks returns all tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.Tasks()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// ListAccountTasks returns the tasks attached to one account
func (h *Handler) ListAccountTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.TasksForAccount(mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// CompleteTask marks a task done
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.svc.CompleteTask(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// ReopenTask clears a task's completion
func (h *Handler) ReopenTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.svc.ReopenTask(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.svc.RemoveTask(id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

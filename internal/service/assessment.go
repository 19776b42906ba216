package service

import (
	"encoding/json"
	"fmt"

	"github.com/rferreira/loan-ledger/internal/amortization"
	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/rferreira/loan-ledger/internal/scoring"
)

// AssessmentDTO describes a candidate loan to score
type AssessmentDTO struct {
	FiscalID     string  `json:"fiscal_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Location     string  `json:"location"`
	EmployeeName string  `json:"employee_name"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// SimulationDTO describes an amortization request. When UseKeyRate is set the
// annual rate is taken from the central bank integration instead.
type SimulationDTO struct {
	Principal  float64 `json:"principal" validate:"required,gt=0"`
	AnnualRate float64 `json:"annual_rate" validate:"gte=0"`
	Months     int     `json:"months" validate:"required,gt=0"`
	UseKeyRate bool    `json:"use_key_rate"`
}

// SimulationResult is a schedule plus the totals shown alongside it
type SimulationResult struct {
	AnnualRate    float64              `json:"annual_rate"`
	Months        int                  `json:"months"`
	Schedule      []models.Installment `json:"schedule"`
	TotalPaid     float64              `json:"total_paid"`
	TotalInterest float64              `json:"total_interest"`
}

// AssessCredit scores a candidate loan against the company's prior records.
func (s *Service) AssessCredit(dto AssessmentDTO) (*models.CreditAssessment, error) {
	if err := s.validate.Struct(dto); err != nil {
		return nil, err
	}

	history, err := s.store.ListLiveAccounts()
	if err != nil {
		return nil, err
	}

	candidate := models.NewLoanAccount(dto.FiscalID, dto.Name, dto.Location, dto.EmployeeName, dto.Amount)

	// The score depends only on the candidate and the company's prior counts,
	// so those counts go into the cache key to avoid serving stale tiers.
	var prior, approved int
	for _, h := range history {
		if h.Name == candidate.Name {
			prior++
			if h.Approved {
				approved++
			}
		}
	}
	key := fmt.Sprintf("assessment:%s:%.2f:%d:%d", dto.Name, dto.Amount, prior, approved)
	if raw, ok := s.cache.Get(key); ok {
		var cached models.CreditAssessment
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	assessment := scoring.Score(*candidate, history)

	if raw, err := json.Marshal(assessment); err == nil {
		if err := s.cache.Set(key, string(raw)); err != nil {
			s.log.Warnf("Failed to cache assessment: %v", err)
		}
	}

	s.log.Infof("Credit assessment for %s: score %d, risk %s", dto.Name, assessment.Score, assessment.RiskLevel)
	return &assessment, nil
}

// SimulateLoan produces an installment schedule for the requested terms.
func (s *Service) SimulateLoan(dto SimulationDTO) (*SimulationResult, error) {
	if err := s.validate.Struct(dto); err != nil {
		return nil, err
	}

	rate := dto.AnnualRate
	if dto.UseKeyRate {
		fetched, err := s.rates.AnnualRate()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch key rate: %w", err)
		}
		rate = fetched
	}

	key := fmt.Sprintf("simulation:%.2f:%.6f:%d", dto.Principal, rate, dto.Months)
	if raw, ok := s.cache.Get(key); ok {
		var cached SimulationResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := s.simulate(dto.Principal, rate, dto.Months)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(key, string(raw)); err != nil {
			s.log.Warnf("Failed to cache simulation: %v", err)
		}
	}
	return result, nil
}

// CompareRates simulates the same principal and term across the three policy
// rate tiers for side-by-side display.
func (s *Service) CompareRates(principal float64, months int) ([]SimulationResult, error) {
	rates := []float64{0.05, 0.08, 0.12}
	results := make([]SimulationResult, 0, len(rates))
	for _, rate := range rates {
		result, err := s.simulate(principal, rate, months)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (s *Service) simulate(principal, rate float64, months int) (*SimulationResult, error) {
	schedule, err := amortization.Schedule(principal, rate, months)
	if err != nil {
		return nil, err
	}
	totalPaid, totalInterest := amortization.Totals(schedule)
	return &SimulationResult{
		AnnualRate:    rate,
		Months:        months,
		Schedule:      schedule,
		TotalPaid:     totalPaid,
		TotalInterest: totalInterest,
	}, nil
}

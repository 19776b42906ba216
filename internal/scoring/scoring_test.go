package scoring

import (
	"reflect"
	"testing"

	"github.com/rferreira/loan-ledger/internal/models"
)

func candidate(name string, amount float64) models.LoanAccount {
	return models.LoanAccount{Name: name, LoanAmount: amount}
}

func TestScoreLowAmountNoHistory(t *testing.T) {
	// 700 base + 30 low-amount bonus = 730 -> MEDIUM tier.
	got := Score(candidate("Padaria Central", 3000), nil)

	if got.Score != 730 {
		t.Errorf("expected score 730, got %d", got.Score)
	}
	if got.RiskLevel != models.RiskMedium {
		t.Errorf("expected MEDIUM risk, got %s", got.RiskLevel)
	}
	if got.InterestRate != 0.08 {
		t.Errorf("expected rate 0.08, got %.2f", got.InterestRate)
	}
	if got.MaxLoanAmount != 4500 {
		t.Errorf("expected ceiling 4500, got %.2f", got.MaxLoanAmount)
	}
}

func TestScoreHighAmountPenalty(t *testing.T) {
	// 700 - 50 = 650 -> HIGH tier, ceiling equals the requested amount.
	got := Score(candidate("Transportes Norte", 20000), nil)

	if got.Score != 650 {
		t.Errorf("expected score 650, got %d", got.Score)
	}
	if got.RiskLevel != models.RiskHigh {
		t.Errorf("expected HIGH risk, got %s", got.RiskLevel)
	}
	if got.InterestRate != 0.12 {
		t.Errorf("expected rate 0.12, got %.2f", got.InterestRate)
	}
	if got.MaxLoanAmount != 20000 {
		t.Errorf("expected ceiling 20000, got %.2f", got.MaxLoanAmount)
	}
}

func TestScoreThresholdTies(t *testing.T) {
	// Amounts exactly at a threshold take no adjustment.
	if got := Score(candidate("A", 10000), nil); got.Score != 700 {
		t.Errorf("amount at high threshold: expected 700, got %d", got.Score)
	}
	if got := Score(candidate("A", 5000), nil); got.Score != 700 {
		t.Errorf("amount at low threshold: expected 700, got %d", got.Score)
	}
}

func TestScoreHistoryBonus(t *testing.T) {
	history := []models.LoanAccount{
		{Name: "Cafe Lisboa", Approved: true},
		{Name: "Cafe Lisboa", Approved: true},
		{Name: "Cafe Lisboa", Approved: false},
		{Name: "Outra Empresa", Approved: true}, // different company, ignored
	}
	// 700 + 30 + (2/3)*100 = 796.67 -> rounds to 797, MEDIUM.
	got := Score(candidate("Cafe Lisboa", 4000), history)

	if got.Score != 797 {
		t.Errorf("expected score 797, got %d", got.Score)
	}
	if got.RiskLevel != models.RiskMedium {
		t.Errorf("expected MEDIUM risk, got %s", got.RiskLevel)
	}
}

func TestScorePerfectHistoryReachesLowRisk(t *testing.T) {
	history := []models.LoanAccount{
		{Name: "Quinta do Vale", Approved: true},
		{Name: "Quinta do Vale", Approved: true},
	}
	// 700 + 30 + 100 = 830 -> LOW tier, double ceiling.
	got := Score(candidate("Quinta do Vale", 2000), history)

	if got.RiskLevel != models.RiskLow {
		t.Errorf("expected LOW risk, got %s", got.RiskLevel)
	}
	if got.InterestRate != 0.05 {
		t.Errorf("expected rate 0.05, got %.2f", got.InterestRate)
	}
	if got.MaxLoanAmount != 4000 {
		t.Errorf("expected ceiling 4000, got %.2f", got.MaxLoanAmount)
	}
}

func TestScoreBreakpointTieGoesToHigherTier(t *testing.T) {
	// 700 exactly (no adjustments) sits on the MEDIUM breakpoint.
	got := Score(candidate("B", 7000), nil)
	if got.RiskLevel != models.RiskMedium {
		t.Errorf("expected MEDIUM at breakpoint, got %s", got.RiskLevel)
	}

	// A perfect single-entry history lands exactly on the LOW breakpoint.
	history := []models.LoanAccount{{Name: "C", Approved: true}}
	got = Score(candidate("C", 7000), history) // 700 + 100 = 800
	if got.RiskLevel != models.RiskLow {
		t.Errorf("expected LOW at 800 breakpoint, got %s", got.RiskLevel)
	}
}

func TestScoreDeterminism(t *testing.T) {
	history := []models.LoanAccount{
		{Name: "Det", Approved: true},
		{Name: "Det", Approved: false},
	}
	first := Score(candidate("Det", 8000), history)
	for i := 0; i < 10; i++ {
		if got := Score(candidate("Det", 8000), history); !reflect.DeepEqual(got, first) {
			t.Fatalf("assessment not deterministic: %+v vs %+v", got, first)
		}
	}
}

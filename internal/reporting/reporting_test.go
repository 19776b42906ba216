package reporting

import (
	"math"
	"testing"

	"github.com/rferreira/loan-ledger/internal/models"
)

var portfolio = []models.LoanAccount{
	{FiscalID: "501111111", Name: "Cafe Lisboa", Location: "Lisboa", LoanAmount: 10000, Balance: -8000},
	{FiscalID: "502222222", Name: "Padaria Central", Location: "Porto", LoanAmount: 5000, Balance: 0},
	{FiscalID: "503333333", Name: "Quinta do Vale", Location: "Lisboa", LoanAmount: 20000, Balance: 1500},
	{FiscalID: "504444444", Name: "Transportes Norte", Location: "Braga", LoanAmount: 7500, Balance: -250},
}

func TestSummarize(t *testing.T) {
	got := Summarize(portfolio)

	if got.TotalLent != 42500 {
		t.Errorf("expected total lent 42500, got %.2f", got.TotalLent)
	}
	if got.TotalRepaid != -6750 {
		t.Errorf("expected total repaid -6750, got %.2f", got.TotalRepaid)
	}
	if got.NetPosition != -49250 {
		t.Errorf("expected net position -49250, got %.2f", got.NetPosition)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalLent != 0 || got.TotalRepaid != 0 || got.NetPosition != 0 {
		t.Errorf("expected zero summary, got %+v", got)
	}
}

func TestDelinquents(t *testing.T) {
	got := Delinquents(portfolio)

	if len(got) != 2 {
		t.Fatalf("expected 2 delinquent accounts, got %d", len(got))
	}
	if got[0].FiscalID != "501111111" || got[1].FiscalID != "504444444" {
		t.Errorf("delinquents out of storage order: %s, %s", got[0].FiscalID, got[1].FiscalID)
	}
}

func TestByLocation(t *testing.T) {
	got := ByLocation(portfolio)

	if len(got) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(got))
	}
	lisboa := got["Lisboa"]
	if lisboa.Count != 2 || lisboa.TotalLoanAmount != 30000 {
		t.Errorf("Lisboa: expected (2, 30000), got (%d, %.2f)", lisboa.Count, lisboa.TotalLoanAmount)
	}
	braga := got["Braga"]
	if braga.Count != 1 || braga.TotalLoanAmount != 7500 {
		t.Errorf("Braga: expected (1, 7500), got (%d, %.2f)", braga.Count, braga.TotalLoanAmount)
	}
}

func TestAmountStats(t *testing.T) {
	got := AmountStats(portfolio)

	if math.Abs(got.Average-10625) > 1e-9 {
		t.Errorf("expected average 10625, got %.2f", got.Average)
	}
	if got.Max != 20000 {
		t.Errorf("expected max 20000, got %.2f", got.Max)
	}
	if got.Min != 5000 {
		t.Errorf("expected min 5000, got %.2f", got.Min)
	}
}

func TestAmountStatsEmpty(t *testing.T) {
	if got := AmountStats(nil); got != (models.AmountStats{}) {
		t.Errorf("expected zero stats for empty portfolio, got %+v", got)
	}
}

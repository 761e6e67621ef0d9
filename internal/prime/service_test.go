package prime

import (
	"context"
	"testing"

	"safvacut-wallet-go/internal/models"
)

func TestPickDefaultPortfolio(t *testing.T) {
	list := []models.Portfolio{
		{Id: "p1", Name: "Trading"},
		{Id: "p2", Name: "Default Portfolio"},
	}

	got, err := pickDefaultPortfolio(list)
	if err != nil {
		t.Fatalf("pickDefaultPortfolio failed: %v", err)
	}
	if got.Id != "p2" {
		t.Errorf("Expected p2, got %s", got.Id)
	}

	if _, err := pickDefaultPortfolio(list[:1]); err == nil {
		t.Error("Expected error when no default portfolio exists")
	}
}

func TestWalletName(t *testing.T) {
	if got := walletName("ETH"); got != "ETH Trading Wallet" {
		t.Errorf("walletName(ETH) = %q", got)
	}
}

func TestDepositAddressRequiresPortfolio(t *testing.T) {
	s := &Service{}
	if _, err := s.DepositAddress(context.Background(), "BTC", "bitcoin-mainnet"); err == nil {
		t.Error("Expected error without a resolved portfolio")
	}
}

func TestUsePortfolioExplicitId(t *testing.T) {
	s := &Service{}
	if err := s.UsePortfolio(context.Background(), "pf-123"); err != nil {
		t.Fatalf("UsePortfolio failed: %v", err)
	}
	if s.portfolioId != "pf-123" {
		t.Errorf("Expected pf-123, got %s", s.portfolioId)
	}
}

package formance

import (
	"math/big"
	"testing"

	"safvacut-wallet-go/internal/models"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
)

// ---------- Unit tests for pure helpers (no Formance stack needed) ----------

func TestFormanceAsset(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTC", "BTC/8"},
		{"ETH", "ETH/18"},
		{"BNB", "BNB/18"},
		{"USDT", "USDT/6"},
		{"TRX", "TRX/6"},
		{"UNKNOWN", "UNKNOWN/6"}, // default precision
	}
	for _, tt := range tests {
		if got := formanceAsset(tt.symbol); got != tt.want {
			t.Errorf("formanceAsset(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestSmallestUnits(t *testing.T) {
	tests := []struct {
		amount string
		symbol string
		want   string
	}{
		{"0.5", "BTC", "50000000"},
		{"0.0005", "BTC", "50000"},
		{"1", "USDT", "1000000"},
		{"0.0000001", "USDT", "0"}, // below precision truncates
	}
	for _, tt := range tests {
		got := smallestUnits(decimal.RequireFromString(tt.amount), tt.symbol)
		if got != tt.want {
			t.Errorf("smallestUnits(%s, %s) = %s, want %s", tt.amount, tt.symbol, got, tt.want)
		}
	}
}

func TestBigIntToDecimal(t *testing.T) {
	// 100_000_000 smallest units of BTC (precision 8) = 1.0
	result := bigIntToDecimal(big.NewInt(100_000_000), "BTC")
	if !result.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1.0, got %s", result.String())
	}

	// nil should return zero
	if !bigIntToDecimal(nil, "BTC").IsZero() {
		t.Error("expected 0 for nil")
	}
}

func TestVolumeBalance(t *testing.T) {
	vols := map[string]shared.V2Volume{
		"BTC/8": {Input: big.NewInt(300), Output: big.NewInt(120)},
	}
	if got := volumeBalance(vols, "BTC/8"); got.Int64() != 180 {
		t.Errorf("expected 180, got %s", got)
	}
	if volumeBalance(vols, "ETH/18") != nil {
		t.Error("expected nil for missing asset")
	}
}

func TestErrorClassifiers(t *testing.T) {
	if isConflictError(nil) {
		t.Error("nil should not be a conflict error")
	}
	if isNotFoundError(nil) {
		t.Error("nil should not be a not-found error")
	}
}

func TestMetaKeys(t *testing.T) {
	if got := walletMetaKey("w1"); got != "wallet_w1" {
		t.Errorf("walletMetaKey = %q", got)
	}
	if got := userAccount("u1"); got != "users:u1" {
		t.Errorf("userAccount = %q", got)
	}
}

func TestExpectedBalances(t *testing.T) {
	d := decimal.RequireFromString
	txs := []models.Transaction{
		{Type: "send", Status: "completed", Crypto: "BTC", Amount: d("0.5"), Fee: d("0.0005")},
		{Type: "send", Status: "completed", Crypto: "BTC", Amount: d("0.25"), Fee: d("0.00025")},
		{Type: "send", Status: "completed", Crypto: "USDT", Amount: d("10"), Fee: d("0.01")},
		{Type: "send", Status: "pending", Crypto: "USDT", Amount: d("99"), Fee: d("0.099")},
		// Fee below USDT precision is dropped, as RecordSend does.
		{Type: "send", Status: "completed", Crypto: "USDT", Amount: d("0.0001"), Fee: d("0.0000001")},
	}

	got := ExpectedBalances(txs)
	if want := d("-0.75075"); !got["BTC"].Equal(want) {
		t.Errorf("BTC: expected %s, got %s", want, got["BTC"])
	}
	if want := d("-10.0101"); !got["USDT"].Equal(want) {
		t.Errorf("USDT: expected %s, got %s", want, got["USDT"])
	}
	if _, ok := got["ETH"]; ok {
		t.Error("expected no entry for an asset without sends")
	}
}

package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAssets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("Failed to write assets file: %v", err)
	}
	return path
}

func TestDefaultAssetCatalogue(t *testing.T) {
	assets := DefaultAssetCatalogue()
	want := []string{"BTC", "ETH", "BNB", "USDT", "TRX"}
	if len(assets) != len(want) {
		t.Fatalf("Expected %d assets, got %d", len(want), len(assets))
	}
	for i, symbol := range want {
		if assets[i].Symbol != symbol {
			t.Errorf("Asset %d: expected %s, got %s", i, symbol, assets[i].Symbol)
		}
	}
	if err := validateAssets(assets); err != nil {
		t.Errorf("Default catalogue should validate: %v", err)
	}
}

func TestLoadAssetConfig(t *testing.T) {
	path := writeAssets(t, `
assets:
  - symbol: BTC
    name: Bitcoin
    network: bitcoin-mainnet
    price: 117853.0
    change: "0.16"
    prefix: "1"
    length: 34
`)
	assets, err := LoadAssetConfig(path)
	if err != nil {
		t.Fatalf("LoadAssetConfig failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("Expected 1 asset, got %d", len(assets))
	}
	if got := assets[0].PriceDecimal().String(); got != "117853" {
		t.Errorf("Expected price 117853, got %s", got)
	}
}

func TestLoadAssetConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "assets: []", "no assets"},
		{"missing symbol", "assets:\n  - name: X\n    price: '1'\n    change: '0'\n    prefix: 'a'\n    length: 3", "missing symbol"},
		{"duplicate", "assets:\n  - {symbol: A, name: A, price: '1', change: '0', prefix: a, length: 3}\n  - {symbol: A, name: A, price: '1', change: '0', prefix: a, length: 3}", "duplicate"},
		{"bad price", "assets:\n  - {symbol: A, name: A, price: abc, change: '0', prefix: a, length: 3}", "invalid price"},
		{"short length", "assets:\n  - {symbol: A, name: A, price: '1', change: '0', prefix: abc, length: 3}", "prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAssetConfig(writeAssets(t, tt.body))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadAssetCatalogueFallsBack(t *testing.T) {
	assets, err := LoadAssetCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected fallback, got %v", err)
	}
	if len(assets) != 5 {
		t.Errorf("Expected built-in catalogue, got %d assets", len(assets))
	}
}

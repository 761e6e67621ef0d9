package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// AssetConfig describes one seed asset. Prefix and Length shape the generated
// receive address; Network is only used when Prime issues the address.
type AssetConfig struct {
	Symbol  string `yaml:"symbol"`
	Name    string `yaml:"name"`
	Network string `yaml:"network"`
	Price   string `yaml:"price"`
	Change  string `yaml:"change"`
	Prefix  string `yaml:"prefix"`
	Length  int    `yaml:"length"`
}

type AssetsConfig struct {
	Assets []AssetConfig `yaml:"assets"`
}

// DefaultAssetCatalogue is used when no assets file is present.
func DefaultAssetCatalogue() []AssetConfig {
	return []AssetConfig{
		{Symbol: "BTC", Name: "Bitcoin", Network: "bitcoin-mainnet", Price: "117853.0", Change: "0.16", Prefix: "1", Length: 34},
		{Symbol: "ETH", Name: "Ethereum", Network: "ethereum-mainnet", Price: "3582.22", Change: "1.42", Prefix: "0x", Length: 42},
		{Symbol: "BNB", Name: "Binance Coin", Network: "bnb-mainnet", Price: "732.49", Change: "0.48", Prefix: "0x", Length: 42},
		{Symbol: "USDT", Name: "Tether", Network: "ethereum-mainnet", Price: "1.0", Change: "-0.02", Prefix: "0x", Length: 42},
		{Symbol: "TRX", Name: "TRON", Network: "tron-mainnet", Price: "0.32", Change: "-2.05", Prefix: "T", Length: 34},
	}
}

// PriceDecimal parses the configured unit price.
func (a AssetConfig) PriceDecimal() decimal.Decimal {
	return decimal.RequireFromString(a.Price)
}

// ChangeDecimal parses the configured 24h change percentage.
func (a AssetConfig) ChangeDecimal() decimal.Decimal {
	return decimal.RequireFromString(a.Change)
}

func LoadAssetConfig(assetsFile string) ([]AssetConfig, error) {
	var assetsPath string
	if filepath.IsAbs(assetsFile) {
		assetsPath = assetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		assetsPath = filepath.Join(wd, assetsFile)
	}

	data, err := os.ReadFile(assetsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", assetsFile, err)
	}

	var config AssetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", assetsFile, err)
	}

	if err := validateAssets(config.Assets); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", assetsFile, err)
	}
	return config.Assets, nil
}

// LoadAssetCatalogue loads the seed catalogue, falling back to the built-in
// default when the file does not exist.
func LoadAssetCatalogue(assetsFile string) ([]AssetConfig, error) {
	if assetsFile == "" {
		return DefaultAssetCatalogue(), nil
	}

	assets, err := LoadAssetConfig(assetsFile)
	if errors.Is(err, os.ErrNotExist) {
		zap.L().Info("Assets file not found, using built-in catalogue", zap.String("file", assetsFile))
		return DefaultAssetCatalogue(), nil
	}
	return assets, err
}

func validateAssets(assets []AssetConfig) error {
	if len(assets) == 0 {
		return fmt.Errorf("no assets defined")
	}

	seen := make(map[string]bool, len(assets))
	for i, asset := range assets {
		if asset.Symbol == "" {
			return fmt.Errorf("asset at index %d missing symbol", i)
		}
		if seen[asset.Symbol] {
			return fmt.Errorf("duplicate asset symbol %s", asset.Symbol)
		}
		seen[asset.Symbol] = true
		if asset.Name == "" {
			return fmt.Errorf("asset %s missing name", asset.Symbol)
		}
		if asset.Prefix == "" || asset.Length <= len(asset.Prefix) {
			return fmt.Errorf("asset %s needs a prefix shorter than its length", asset.Symbol)
		}
		if _, err := decimal.NewFromString(asset.Price); err != nil {
			return fmt.Errorf("asset %s has invalid price %q", asset.Symbol, asset.Price)
		}
		if _, err := decimal.NewFromString(asset.Change); err != nil {
			return fmt.Errorf("asset %s has invalid change %q", asset.Symbol, asset.Change)
		}
	}
	return nil
}

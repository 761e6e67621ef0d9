package profile

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"safvacut-wallet-go/internal/common"

	"go.uber.org/zap"
)

const addressCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// AddressSource issues the receive address for a seed asset.
type AddressSource interface {
	Address(ctx context.Context, asset common.AssetConfig) (string, error)
}

// GenerateAddress returns prefix followed by random alphanumerics up to length.
func GenerateAddress(prefix string, length int) string {
	var b strings.Builder
	b.Grow(length)
	b.WriteString(prefix)

	max := big.NewInt(int64(len(addressCharset)))
	for i := len(prefix); i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b.WriteByte(addressCharset[n.Int64()])
	}
	return b.String()
}

// RandomAddresses generates display-only addresses from the catalogue shape.
type RandomAddresses struct{}

func (RandomAddresses) Address(_ context.Context, asset common.AssetConfig) (string, error) {
	return GenerateAddress(asset.Prefix, asset.Length), nil
}

// DepositAddresser is satisfied by prime.Service.
type DepositAddresser interface {
	DepositAddress(ctx context.Context, symbol, network string) (string, error)
}

// CustodyAddresses asks the custodian for a real deposit address and falls
// back to a generated one when that fails.
type CustodyAddresses struct {
	custodian DepositAddresser
	fallback  AddressSource
}

func NewCustodyAddresses(custodian DepositAddresser) *CustodyAddresses {
	return &CustodyAddresses{custodian: custodian, fallback: RandomAddresses{}}
}

func (c *CustodyAddresses) Address(ctx context.Context, asset common.AssetConfig) (string, error) {
	address, err := c.custodian.DepositAddress(ctx, asset.Symbol, asset.Network)
	if err == nil && address != "" {
		return address, nil
	}
	zap.L().Warn("Custody address unavailable, generating one",
		zap.String("symbol", asset.Symbol),
		zap.Error(err))
	return c.fallback.Address(ctx, asset)
}

// NewWalletId returns a uniformly random 10-digit id in [1e9, 9999999999].
func NewWalletId() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		panic(err)
	}
	return n.Int64() + 1_000_000_000
}

package dashboard

import (
	"context"
	"fmt"
	"strings"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"
	"safvacut-wallet-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	WalletTypeMetaMask = "MetaMask"
	WalletTypeImported = "Imported Wallet"
	WalletTypePrime    = "Coinbase Prime"

	MsgMnemonicRequired  = "Please enter your mnemonic phrase"
	MsgMnemonicWordCount = "Mnemonic phrase must be 12 or 24 words"
)

// ConnectWallet adds an external wallet. Only MetaMask is supported; its
// address is generated since no browser extension is involved.
func (c *Controller) ConnectWallet(ctx context.Context, walletType string) (*models.Wallet, error) {
	if walletType != WalletTypeMetaMask {
		return nil, apperr.NewValidation("dashboard.ConnectWallet", "Unsupported wallet type")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addWallet(ctx, WalletTypeMetaMask, profile.GenerateAddress("0x", 42))
}

// ImportWallet adds a wallet from a 12 or 24 word phrase. The phrase is
// only checked for shape and never stored.
func (c *Controller) ImportWallet(ctx context.Context, mnemonic string) (*models.Wallet, error) {
	const op = "dashboard.ImportWallet"

	phrase := strings.TrimSpace(mnemonic)
	if phrase == "" {
		return nil, apperr.NewValidation(op, MsgMnemonicRequired)
	}
	words := strings.Fields(phrase)
	if len(words) != 12 && len(words) != 24 {
		return nil, apperr.NewValidation(op, MsgMnemonicWordCount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addWallet(ctx, WalletTypeImported, profile.GenerateAddress("0x", 42))
}

// ConnectPrimeWallet connects the custodian's deposit address for symbol.
func (c *Controller) ConnectPrimeWallet(ctx context.Context, symbol string) (*models.Wallet, error) {
	const op = "dashboard.ConnectPrimeWallet"

	if c.custodian == nil {
		return nil, apperr.NewValidation(op, "Coinbase Prime is not enabled")
	}

	network := ""
	found := false
	for _, a := range c.catalogue {
		if a.Symbol == symbol {
			network, found = a.Network, true
			break
		}
	}
	if !found {
		return nil, apperr.NewValidation(op, "Unsupported asset "+symbol)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	address, err := c.custodian.DepositAddress(ctx, symbol, network)
	if err != nil {
		return nil, apperr.NewFailure(op, "Failed to connect Coinbase Prime wallet", err)
	}
	return c.addWallet(ctx, WalletTypePrime, address)
}

func (c *Controller) addWallet(ctx context.Context, walletType, address string) (*models.Wallet, error) {
	now := c.now()
	w := models.Wallet{
		Id:        uuid.New().String(),
		UserId:    c.userId,
		Type:      walletType,
		Address:   address,
		Balance:   decimal.Zero,
		IsActive:  true,
		CreatedAt: now,
		LastUsed:  now,
	}
	if err := c.docs.CreateWallet(ctx, w); err != nil {
		return nil, apperr.NewFailure("dashboard.addWallet", "Error adding wallet", err)
	}
	c.wallets = append(c.wallets, w)

	zap.L().Info("Wallet connected",
		zap.String("user_id", c.userId),
		zap.String("type", walletType),
		zap.String("address", TruncateAddress(address)))

	if c.notifications != nil {
		msg := fmt.Sprintf("%s wallet connected successfully", walletType)
		if err := c.notifications.Append(ctx, "Wallet Connected", msg, models.SeveritySuccess); err != nil {
			zap.L().Warn("Failed to create notification", zap.String("user_id", c.userId), zap.Error(err))
		}
	}

	total := len(c.wallets)
	if err := c.docs.UpdateProfile(ctx, c.userId, store.ProfileUpdate{TotalWallets: &total}); err != nil {
		zap.L().Warn("Failed to update wallet count", zap.String("user_id", c.userId), zap.Error(err))
	} else if c.profile != nil {
		c.profile.TotalWallets = total
	}

	if c.ledger != nil {
		if err := c.ledger.RecordWallet(ctx, w); err != nil {
			zap.L().Warn("Ledger mirror failed", zap.String("wallet_id", w.Id), zap.Error(err))
		}
	}
	return &w, nil
}

// ReceiveAddress returns the loaded asset's receive address.
func (c *Controller) ReceiveAddress(symbol string) (*models.ReceiveResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findAsset(symbol)
	if idx < 0 {
		return nil, apperr.NewNotFound("dashboard.ReceiveAddress", "Asset "+symbol)
	}
	a := c.assets[idx]
	return &models.ReceiveResponse{Symbol: a.Symbol, Name: a.Name, Address: a.Address}, nil
}

package dashboard

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TxTypeSend        = "send"
	TxStatusCompleted = "completed"

	MsgInvalidSend = "Please fill in all fields correctly"
)

var feeRate = decimal.RequireFromString("0.001")

// SendTransaction records a simulated send. The transaction, the asset
// balance, the notification and the profile counter are separate writes;
// the transaction records the balance it moved from and to so a failed
// asset write can be replayed by ReconcileAsset.
func (c *Controller) SendTransaction(ctx context.Context, req models.SendRequest) (*models.Transaction, error) {
	const op = "dashboard.SendTransaction"

	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" || !req.Amount.IsPositive() {
		return nil, apperr.NewValidation(op, MsgInvalidSend)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findAsset(req.Crypto)
	if idx < 0 {
		return nil, apperr.NewInsufficientBalance(op)
	}

	// Replay an earlier send whose asset write never landed before
	// spending from the balance again.
	now := c.now()
	asset, _, err := ReconcileAsset(ctx, c.docs, c.assets[idx], now)
	if err != nil {
		return nil, apperr.NewFailure(op, "Transaction failed", err)
	}
	c.assets[idx] = asset

	if asset.Balance.LessThan(req.Amount) {
		return nil, apperr.NewInsufficientBalance(op)
	}

	tx := models.Transaction{
		Id:            uuid.New().String(),
		UserId:        c.userId,
		Type:          TxTypeSend,
		Crypto:        asset.Symbol,
		Amount:        req.Amount,
		Fee:           req.Amount.Mul(feeRate),
		Recipient:     recipient,
		Status:        TxStatusCompleted,
		Hash:          newTransactionHash(),
		BalanceBefore: asset.Balance,
		BalanceAfter:  asset.Balance.Sub(req.Amount),
		CreatedAt:     now,
		ConfirmedAt:   now,
	}
	if err := c.docs.CreateTransaction(ctx, tx); err != nil {
		return nil, apperr.NewFailure(op, "Transaction failed", err)
	}

	updated := asset
	updated.Balance = tx.BalanceAfter
	updated.Value = updated.Balance.Mul(updated.Price)
	updated.LastTransactionId = tx.Id
	updated.UpdatedAt = now
	if err = c.docs.UpdateAsset(ctx, updated, asset.LastTransactionId); err != nil {
		if errors.Is(err, store.ErrConcurrentModification) {
			// A sweep may have replayed this very transaction first.
			if current, loadErr := loadAsset(ctx, c.docs, asset); loadErr == nil && current.LastTransactionId == tx.Id {
				updated, err = *current, nil
			}
		}
	}
	if err != nil {
		// The transaction exists without its balance change. The reconciler
		// replays it from BalanceAfter.
		zap.L().Error("Asset write failed after transaction",
			zap.String("user_id", c.userId),
			zap.String("tx_id", tx.Id),
			zap.String("symbol", asset.Symbol),
			zap.Error(err))
		return nil, apperr.NewFailure(op, "Transaction failed", err)
	}
	c.assets[idx] = updated

	zap.L().Info("Transaction sent",
		zap.String("user_id", c.userId),
		zap.String("tx_id", tx.Id),
		zap.String("symbol", tx.Crypto),
		zap.String("amount", tx.Amount.String()),
		zap.String("balance_after", tx.BalanceAfter.String()))

	if c.notifications != nil {
		msg := fmt.Sprintf("%s %s sent successfully", tx.Amount.String(), tx.Crypto)
		if err := c.notifications.Append(ctx, "Transaction Sent", msg, models.SeveritySuccess); err != nil {
			zap.L().Warn("Failed to create notification", zap.String("user_id", c.userId), zap.Error(err))
		}
	}

	c.bumpTransactionCount(ctx)
	c.mirrorSend(ctx, tx)

	return &tx, nil
}

func (c *Controller) bumpTransactionCount(ctx context.Context) {
	if c.profile == nil {
		return
	}
	count := c.profile.TotalTransactions + 1
	if err := c.docs.UpdateProfile(ctx, c.userId, store.ProfileUpdate{TotalTransactions: &count}); err != nil {
		zap.L().Warn("Failed to update transaction count", zap.String("user_id", c.userId), zap.Error(err))
		return
	}
	c.profile.TotalTransactions = count
}

func (c *Controller) mirrorSend(ctx context.Context, tx models.Transaction) {
	if c.ledger == nil {
		return
	}
	if err := c.ledger.RecordSend(ctx, tx); err != nil {
		zap.L().Warn("Ledger mirror failed", zap.String("tx_id", tx.Id), zap.Error(err))
	}
}

// ReconcileAsset replays the latest completed send for symbol onto the
// asset when the asset does not reference it yet. It reports whether the
// asset changed.
func (c *Controller) ReconcileAsset(ctx context.Context, symbol string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findAsset(symbol)
	if idx < 0 {
		return false, apperr.NewNotFound("dashboard.ReconcileAsset", "Asset "+symbol)
	}

	updated, changed, err := ReconcileAsset(ctx, c.docs, c.assets[idx], c.now())
	if err != nil {
		return false, err
	}
	c.assets[idx] = updated
	return changed, nil
}

// ReconcileAsset is the stateless form used by the background sweep. The
// write is guarded by the asset's last transaction id; when another writer
// moved the asset first, the stored asset is returned unchanged.
func ReconcileAsset(ctx context.Context, docs store.DocumentStore, asset models.Asset, now time.Time) (models.Asset, bool, error) {
	latest, err := docs.LatestTransaction(ctx, asset.UserId, asset.Symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return asset, false, nil
		}
		return asset, false, fmt.Errorf("failed to load latest transaction: %w", err)
	}
	if latest.Id == asset.LastTransactionId || latest.Type != TxTypeSend {
		return asset, false, nil
	}

	expected := asset.LastTransactionId
	asset.Balance = latest.BalanceAfter
	asset.Value = asset.Balance.Mul(asset.Price)
	asset.LastTransactionId = latest.Id
	asset.UpdatedAt = now
	if err := docs.UpdateAsset(ctx, asset, expected); err != nil {
		if errors.Is(err, store.ErrConcurrentModification) {
			current, loadErr := loadAsset(ctx, docs, asset)
			if loadErr != nil {
				return asset, false, fmt.Errorf("failed to reload asset: %w", loadErr)
			}
			zap.L().Info("Asset moved by another writer",
				zap.String("user_id", asset.UserId),
				zap.String("symbol", asset.Symbol),
				zap.String("last_tx_id", current.LastTransactionId))
			return *current, false, nil
		}
		return asset, false, fmt.Errorf("failed to update asset: %w", err)
	}

	zap.L().Info("Asset reconciled",
		zap.String("user_id", asset.UserId),
		zap.String("symbol", asset.Symbol),
		zap.String("tx_id", latest.Id),
		zap.String("balance", asset.Balance.String()))
	return asset, true, nil
}

// ReconcileUser sweeps every asset of one user.
func ReconcileUser(ctx context.Context, docs store.DocumentStore, userId string, now time.Time) (int, error) {
	assets, err := docs.ListAssets(ctx, userId)
	if err != nil {
		return 0, fmt.Errorf("failed to list assets: %w", err)
	}
	fixed := 0
	for _, a := range assets {
		_, changed, err := ReconcileAsset(ctx, docs, a, now)
		if err != nil {
			return fixed, fmt.Errorf("asset %s: %w", a.Symbol, err)
		}
		if changed {
			fixed++
		}
	}
	return fixed, nil
}

func loadAsset(ctx context.Context, docs store.DocumentStore, asset models.Asset) (*models.Asset, error) {
	assets, err := docs.ListAssets(ctx, asset.UserId)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		if assets[i].Id == asset.Id {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset %s: %w", asset.Id, store.ErrNotFound)
}

func newTransactionHash() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return "0x" + hex.EncodeToString(b)
}

package dashboard

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/notification"
	"safvacut-wallet-go/internal/profile"
	"safvacut-wallet-go/internal/store"
	"safvacut-wallet-go/internal/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingAssets rejects UpdateAsset while fail is set.
type failingAssets struct {
	store.DocumentStore
	mu   sync.Mutex
	fail bool
}

func (f *failingAssets) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *failingAssets) UpdateAsset(ctx context.Context, a models.Asset, expectedLastTxId string) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("asset write rejected")
	}
	return f.DocumentStore.UpdateAsset(ctx, a, expectedLastTxId)
}

// MockLedger implements LedgerMirror
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordSend(ctx context.Context, tx models.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockLedger) RecordWallet(ctx context.Context, w models.Wallet) error {
	return m.Called(ctx, w).Error(0)
}

type fixture struct {
	docs   *failingAssets
	center *notification.Center
	ctrl   *Controller
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupDashboard(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	docs := &failingAssets{DocumentStore: storetest.NewBackend(t)}

	profiles := profile.NewService(docs, nil, common.DefaultAssetCatalogue())
	_, err := profiles.Initialize(ctx, models.Identity{Uid: "uid-1", Email: "ada@example.com", DisplayName: "Ada"}, models.ClientInfo{})
	require.NoError(t, err)

	// Fund BTC with 1.5
	assets, err := docs.ListAssets(ctx, "uid-1")
	require.NoError(t, err)
	for _, a := range assets {
		if a.Symbol == "BTC" {
			a.Balance = dec("1.5")
			a.Value = a.Balance.Mul(a.Price)
			require.NoError(t, docs.UpdateAsset(ctx, a, a.LastTransactionId))
		}
	}

	center := notification.NewCenter(docs, "uid-1")
	t.Cleanup(center.Close)

	ctrl := NewController(docs, "uid-1", center, opts...)
	require.NoError(t, ctrl.Load(ctx))
	return &fixture{docs: docs, center: center, ctrl: ctrl}
}

func assetBySymbol(t *testing.T, assets []models.Asset, symbol string) models.Asset {
	t.Helper()
	for _, a := range assets {
		if a.Symbol == symbol {
			return a
		}
	}
	t.Fatalf("asset %s not found", symbol)
	return models.Asset{}
}

func TestSendTransactionBTCExample(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	tx, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.5"), Recipient: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"})
	require.NoError(t, err)

	assert.True(t, tx.Fee.Equal(dec("0.0005")), "fee %s", tx.Fee)
	assert.Equal(t, TxTypeSend, tx.Type)
	assert.Equal(t, TxStatusCompleted, tx.Status)
	assert.Regexp(t, regexp.MustCompile(`^0x[0-9a-f]{64}$`), tx.Hash)
	assert.True(t, tx.BalanceBefore.Equal(dec("1.5")))
	assert.True(t, tx.BalanceAfter.Equal(dec("1.0")))

	btc := assetBySymbol(t, f.ctrl.Assets(), "BTC")
	assert.True(t, btc.Balance.Equal(dec("1.0")), "balance %s", btc.Balance)
	assert.True(t, btc.Value.Equal(dec("117853.0")), "value %s", btc.Value)
	assert.Equal(t, tx.Id, btc.LastTransactionId)

	stored, err := f.docs.ListAssets(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, assetBySymbol(t, stored, "BTC").Balance.Equal(dec("1.0")))

	list := f.center.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "Transaction Sent", list[0].Title)
	assert.Equal(t, "0.5 BTC sent successfully", list[0].Message)
	assert.Equal(t, models.SeveritySuccess, list[0].Type)

	p, err := f.docs.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalTransactions)
}

func TestSendTransactionRejections(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.SendRequest
		want string
	}{
		{"no recipient", models.SendRequest{Crypto: "BTC", Amount: dec("0.1")}, MsgInvalidSend},
		{"zero amount", models.SendRequest{Crypto: "BTC", Amount: decimal.Zero, Recipient: "x"}, MsgInvalidSend},
		{"negative amount", models.SendRequest{Crypto: "BTC", Amount: dec("-1"), Recipient: "x"}, MsgInvalidSend},
		{"over balance", models.SendRequest{Crypto: "BTC", Amount: dec("1.5000001"), Recipient: "x"}, "Insufficient balance"},
		{"empty asset", models.SendRequest{Crypto: "ETH", Amount: dec("0.1"), Recipient: "x"}, "Insufficient balance"},
		{"unknown asset", models.SendRequest{Crypto: "DOGE", Amount: dec("0.1"), Recipient: "x"}, "Insufficient balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ctrl.SendTransaction(ctx, tt.req)
			assert.Equal(t, tt.want, apperr.Message(err))
		})
	}

	txs, err := f.docs.ListTransactions(ctx, "uid-1", 10)
	require.NoError(t, err)
	assert.Empty(t, txs, "no transaction may be written for a rejected send")
}

func TestSendWholeBalance(t *testing.T) {
	f := setupDashboard(t)

	_, err := f.ctrl.SendTransaction(context.Background(), models.SendRequest{Crypto: "BTC", Amount: dec("1.5"), Recipient: "x"})
	require.NoError(t, err)
	assert.True(t, assetBySymbol(t, f.ctrl.Assets(), "BTC").Balance.IsZero())
}

func TestAssetWriteFailureIsReconciled(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	f.docs.setFail(true)
	_, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.5"), Recipient: "x"})
	assert.Equal(t, "Transaction failed", apperr.Message(err))

	// The gap: the transaction exists, the balance did not move.
	txs, err := f.docs.ListTransactions(ctx, "uid-1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, assetBySymbol(t, f.ctrl.Assets(), "BTC").Balance.Equal(dec("1.5")))

	f.docs.setFail(false)
	changed, err := f.ctrl.ReconcileAsset(ctx, "BTC")
	require.NoError(t, err)
	assert.True(t, changed)

	btc := assetBySymbol(t, f.ctrl.Assets(), "BTC")
	assert.True(t, btc.Balance.Equal(dec("1.0")))
	assert.Equal(t, txs[0].Id, btc.LastTransactionId)

	changed, err = f.ctrl.ReconcileAsset(ctx, "BTC")
	require.NoError(t, err)
	assert.False(t, changed, "second run is a no-op")
}

func TestSendReplaysPendingGapFirst(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	f.docs.setFail(true)
	_, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("1.0"), Recipient: "x"})
	require.Error(t, err)
	f.docs.setFail(false)

	// Only 0.5 is really left, so another 1.0 must fail.
	_, err = f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("1.0"), Recipient: "x"})
	assert.Equal(t, "Insufficient balance", apperr.Message(err))
	assert.True(t, assetBySymbol(t, f.ctrl.Assets(), "BTC").Balance.Equal(dec("0.5")))
}

func TestReconcileUser(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	f.docs.setFail(true)
	_, _ = f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.25"), Recipient: "x"})
	f.docs.setFail(false)

	fixed, err := ReconcileUser(ctx, f.docs, "uid-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	stored, err := f.docs.ListAssets(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, assetBySymbol(t, stored, "BTC").Balance.Equal(dec("1.25")))

	fixed, err = ReconcileUser(ctx, f.docs, "uid-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

// pinnedLatest answers LatestTransaction with a fixed, possibly outdated row.
type pinnedLatest struct {
	store.DocumentStore
	tx *models.Transaction
}

func (p pinnedLatest) LatestTransaction(ctx context.Context, userId, crypto string) (*models.Transaction, error) {
	return p.tx, nil
}

func TestStaleReconcileDoesNotRollBack(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	before := assetBySymbol(t, f.ctrl.Assets(), "BTC")
	first, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.5"), Recipient: "x"})
	require.NoError(t, err)
	second, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.25"), Recipient: "x"})
	require.NoError(t, err)

	// A sweep that read the asset before both sends and the latest
	// transaction after the first one.
	got, changed, err := ReconcileAsset(ctx, pinnedLatest{f.docs, first}, before, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, second.Id, got.LastTransactionId)

	stored := assetBySymbol(t, mustListAssets(t, f.docs), "BTC")
	assert.True(t, stored.Balance.Equal(dec("0.75")), "balance rolled back to %s", stored.Balance)
	assert.Equal(t, second.Id, stored.LastTransactionId)
}

// sweptFirst lands the same asset write once before the caller's own write,
// as a sweep replaying the new transaction would.
type sweptFirst struct {
	store.DocumentStore
	armed bool
}

func (s *sweptFirst) UpdateAsset(ctx context.Context, a models.Asset, expectedLastTxId string) error {
	if s.armed {
		s.armed = false
		if err := s.DocumentStore.UpdateAsset(ctx, a, expectedLastTxId); err != nil {
			return err
		}
	}
	return s.DocumentStore.UpdateAsset(ctx, a, expectedLastTxId)
}

func TestSendAcceptsSweepReplayingIt(t *testing.T) {
	f := setupDashboard(t)
	ctx := context.Background()

	docs := &sweptFirst{DocumentStore: f.docs}
	ctrl := NewController(docs, "uid-1", nil)
	require.NoError(t, ctrl.Load(ctx))

	docs.armed = true
	tx, err := ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.5"), Recipient: "x"})
	require.NoError(t, err)

	btc := assetBySymbol(t, ctrl.Assets(), "BTC")
	assert.True(t, btc.Balance.Equal(dec("1")))
	assert.Equal(t, tx.Id, btc.LastTransactionId)
}

func mustListAssets(t *testing.T, docs store.DocumentStore) []models.Asset {
	t.Helper()
	assets, err := docs.ListAssets(context.Background(), "uid-1")
	require.NoError(t, err)
	return assets
}

func TestLedgerMirror(t *testing.T) {
	ledger := new(MockLedger)
	f := setupDashboard(t, WithLedger(ledger))
	ctx := context.Background()

	ledger.On("RecordSend", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.Crypto == "BTC" && tx.Amount.Equal(dec("0.1"))
	})).Return(errors.New("ledger offline"))

	// Mirror failures never fail the send.
	_, err := f.ctrl.SendTransaction(ctx, models.SendRequest{Crypto: "BTC", Amount: dec("0.1"), Recipient: "x"})
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

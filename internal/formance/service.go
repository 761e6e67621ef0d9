package formance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"safvacut-wallet-go/internal/models"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// assetPrecision maps seed asset symbols to their ledger precision.
var assetPrecision = map[string]int{
	"USD":  2,
	"BTC":  8,
	"ETH":  18,
	"BNB":  18,
	"USDT": 6,
	"TRX":  6,
}

// Service mirrors wallet activity into a Formance Stack ledger. The document
// store stays authoritative; the ledger is an audit trail.
type Service struct {
	client *v3.Formance
	ledger string
}

func NewService(ctx context.Context, cfg models.FormanceConfig) (*Service, error) {
	if cfg.StackURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("formance config requires StackURL, ClientID, and ClientSecret")
	}
	if cfg.LedgerName == "" {
		cfg.LedgerName = "safvacut-wallet"
	}

	zap.L().Info("Connecting to Formance Stack",
		zap.String("stack_url", cfg.StackURL),
		zap.String("ledger", cfg.LedgerName))

	client := v3.New(
		v3.WithServerURL(cfg.StackURL),
		v3.WithSecurity(shared.Security{
			ClientID:     v3.Pointer(cfg.ClientID),
			ClientSecret: v3.Pointer(cfg.ClientSecret),
		}),
	)

	svc := &Service{client: client, ledger: cfg.LedgerName}

	if err := svc.ensureLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger exists: %w", err)
	}

	zap.L().Info("Formance service initialized", zap.String("ledger", cfg.LedgerName))
	return svc, nil
}

// ensureLedger creates the ledger if it does not already exist.
func (s *Service) ensureLedger(ctx context.Context) error {
	_, err := s.client.Ledger.V2.CreateLedger(ctx, operations.V2CreateLedgerRequest{
		Ledger: s.ledger,
		V2CreateLedgerRequest: shared.V2CreateLedgerRequest{
			Metadata: map[string]string{
				"application": "safvacut-wallet",
			},
		},
	})
	if err != nil {
		var apiErr *sdkerrors.V2ErrorResponse
		if errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumLedgerAlreadyExists {
			zap.L().Info("Ledger already exists", zap.String("ledger", s.ledger))
			return nil
		}
		return err
	}
	zap.L().Info("Ledger created", zap.String("ledger", s.ledger))
	return nil
}

// AccountBalance reads the mirrored balance of one user asset.
func (s *Service) AccountBalance(ctx context.Context, userId, symbol string) (decimal.Decimal, error) {
	resp, err := s.client.Ledger.V2.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  s.ledger,
		Address: userAccount(userId),
		Expand:  v3.Pointer("volumes"),
	})
	if err != nil {
		if isNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("error reading ledger account: %w", err)
	}
	return bigIntToDecimal(volumeBalance(resp.V2AccountResponse.Data.Volumes, formanceAsset(symbol)), symbol), nil
}

// SendDrift is an asset whose mirrored balance disagrees with the sends
// recorded in the document store.
type SendDrift struct {
	Symbol   string
	Expected decimal.Decimal
	Mirrored decimal.Decimal
}

// AuditSends compares the mirrored balance of each symbol with what the
// completed sends in txs should have left on the user's ledger account.
func (s *Service) AuditSends(ctx context.Context, userId string, symbols []string, txs []models.Transaction) ([]SendDrift, error) {
	expected := ExpectedBalances(txs)

	var drift []SendDrift
	for _, symbol := range symbols {
		mirrored, err := s.AccountBalance(ctx, userId, symbol)
		if err != nil {
			return drift, fmt.Errorf("asset %s: %w", symbol, err)
		}
		want, ok := expected[symbol]
		if !ok {
			want = decimal.Zero
		}
		if !mirrored.Equal(want) {
			drift = append(drift, SendDrift{Symbol: symbol, Expected: want, Mirrored: mirrored})
		}
	}
	return drift, nil
}

// ExpectedBalances sums completed sends per asset the way RecordSend posts
// them: amount and fee each truncated to ledger precision, debited from the
// user account.
func ExpectedBalances(txs []models.Transaction) map[string]decimal.Decimal {
	units := make(map[string]*big.Int)
	for _, tx := range txs {
		if tx.Type != "send" || tx.Status != "completed" {
			continue
		}
		total, ok := units[tx.Crypto]
		if !ok {
			total = new(big.Int)
			units[tx.Crypto] = total
		}
		for _, part := range []decimal.Decimal{tx.Amount, tx.Fee} {
			n, _ := new(big.Int).SetString(smallestUnits(part, tx.Crypto), 10)
			total.Sub(total, n)
		}
	}

	balances := make(map[string]decimal.Decimal, len(units))
	for symbol, raw := range units {
		balances[symbol] = bigIntToDecimal(raw, symbol)
	}
	return balances
}

// ---------- helpers ----------

func userAccount(userId string) string {
	return "users:" + userId
}

// formanceAsset returns the Formance UMN notation, e.g. "BTC/8".
func formanceAsset(symbol string) string {
	return fmt.Sprintf("%s/%d", symbol, precisionFor(symbol))
}

func precisionFor(symbol string) int {
	if p, ok := assetPrecision[symbol]; ok {
		return p
	}
	return 6
}

// smallestUnits converts a human amount into integer ledger units, truncating
// anything below the asset precision.
func smallestUnits(amount decimal.Decimal, symbol string) string {
	return amount.Shift(int32(precisionFor(symbol))).Truncate(0).BigInt().String()
}

// volumeBalance extracts the balance for a specific asset from volumes.
func volumeBalance(vols map[string]shared.V2Volume, fAsset string) *big.Int {
	vol, ok := vols[fAsset]
	if !ok {
		return nil
	}
	if vol.Balance != nil {
		return vol.Balance
	}
	if vol.Input == nil {
		return nil
	}
	result := new(big.Int).Set(vol.Input)
	if vol.Output != nil {
		result.Sub(result, vol.Output)
	}
	return result
}

// bigIntToDecimal converts a *big.Int in smallest-unit to a human-readable decimal.
func bigIntToDecimal(raw *big.Int, symbol string) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(precisionFor(symbol)))
}

// isConflictError checks whether a Formance SDK error is a CONFLICT (duplicate reference).
func isConflictError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumConflict
}

// isNotFoundError checks whether a Formance SDK error is NOT_FOUND.
func isNotFoundError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumNotFound
}

func strPtr(s string) *string { return &s }

package formance

import (
	"context"
	"fmt"

	"safvacut-wallet-go/internal/models"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"go.uber.org/zap"
)

// Numscript for a simulated send. The user account may go negative because
// seeded balances never entered the ledger.
const numscriptSend = `vars {
  asset $asset
  number $amount
  number $fee
  account $user_id
  string $tx_id
  string $recipient
  string $tx_hash
  string $asset_symbol
  string $amount_human
}

send [$asset $amount] (
  source = @users:$user_id allowing unbounded overdraft
  destination = @external:sends
)

send [$asset $fee] (
  source = @users:$user_id allowing unbounded overdraft
  destination = @platform:fees
)

set_tx_meta("event_type", "send")
set_tx_meta("tx_id", $tx_id)
set_tx_meta("recipient", $recipient)
set_tx_meta("tx_hash", $tx_hash)
set_tx_meta("asset_symbol", $asset_symbol)
set_tx_meta("amount_human", $amount_human)
`

// RecordSend posts a completed send. Re-posting the same transaction id is a no-op.
func (s *Service) RecordSend(ctx context.Context, tx models.Transaction) error {
	postTx := shared.V2PostTransaction{
		Reference: strPtr(tx.Id),
		Timestamp: &tx.CreatedAt,
		Script: &shared.V2PostTransactionScript{
			Plain: numscriptSend,
			Vars: map[string]string{
				"asset":        formanceAsset(tx.Crypto),
				"amount":       smallestUnits(tx.Amount, tx.Crypto),
				"fee":          smallestUnits(tx.Fee, tx.Crypto),
				"user_id":      tx.UserId,
				"tx_id":        tx.Id,
				"recipient":    tx.Recipient,
				"tx_hash":      tx.Hash,
				"asset_symbol": tx.Crypto,
				"amount_human": tx.Amount.String(),
			},
		},
	}

	_, err := s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger:            s.ledger,
		V2PostTransaction: postTx,
	})
	if err != nil {
		if isConflictError(err) {
			return nil
		}
		return fmt.Errorf("error recording send: %w", err)
	}

	zap.L().Info("Send mirrored to Formance",
		zap.String("user_id", tx.UserId),
		zap.String("asset", tx.Crypto),
		zap.String("amount", tx.Amount.String()),
		zap.String("tx_id", tx.Id))
	return nil
}

// RecordWallet tags the user account with a connected wallet.
func (s *Service) RecordWallet(ctx context.Context, w models.Wallet) error {
	_, err := s.client.Ledger.V2.AddMetadataToAccount(ctx, operations.V2AddMetadataToAccountRequest{
		Ledger:  s.ledger,
		Address: userAccount(w.UserId),
		RequestBody: map[string]string{
			walletMetaKey(w.Id): fmt.Sprintf("%s:%s", w.Type, w.Address),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to tag wallet on user account: %w", err)
	}
	return nil
}

func walletMetaKey(walletId string) string {
	return "wallet_" + walletId
}

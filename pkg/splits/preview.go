package splits

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/cascade-protocol/splits-go/pkg/distribution"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
)

// ExecutionPreview is a read-only projection of what Execute would pay out
// right now.
type ExecutionPreview struct {
	// Allocations is the per-recipient payout of the newly available
	// balance, in recipient order.
	Allocations []distribution.Allocation

	// ProtocolFee is the protocol's cut of the newly available balance.
	ProtocolFee uint64

	// Available is the vault balance not already earmarked as unclaimed.
	Available uint64

	// PendingUnclaimed are previously failed payouts that execution would
	// retry.
	PendingUnclaimed []cascade_splits.UnclaimedEntry

	// PendingProtocolFee is the protocol's previously failed cut.
	PendingProtocolFee uint64
}

// PreviewExecution computes the payout Execute would produce without
// submitting anything.
func (e *Engine) PreviewExecution(ctx context.Context, splitConfig ed25519.PublicKey) (*ExecutionPreview, error) {
	account, status, err := e.readSplitConfig(ctx, splitConfig)
	if err != nil {
		return nil, err
	}
	switch status {
	case splitReadNotFound:
		return nil, fmt.Errorf("no split config at %s", truncateAddress(splitConfig))
	case splitReadNotASplit:
		return nil, fmt.Errorf("account %s is not a split config", truncateAddress(splitConfig))
	}

	balance, exists, err := e.ledger.GetTokenBalance(ctx, account.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		balance = 0
	}

	preview := &ExecutionPreview{
		PendingUnclaimed:   account.LiveUnclaimed(),
		PendingProtocolFee: account.ProtocolUnclaimed,
	}

	// Unclaimed amounts still sit in the vault; only the remainder is new
	// inflow to distribute.
	earmarked := account.TotalUnclaimed()
	if balance > earmarked {
		preview.Available = balance - earmarked
	}

	recipients := account.LiveRecipients()
	if preview.Available == 0 || len(recipients) == 0 {
		return preview, nil
	}

	bpsRecipients := make([]distribution.BpsRecipient, len(recipients))
	for i, recipient := range recipients {
		bpsRecipients[i] = distribution.BpsRecipient{
			Address: recipient.Address,
			Bps:     recipient.Bps,
		}
	}

	allocations, fee, err := distribution.CalculateFromBasisPoints(preview.Available, bpsRecipients)
	if err != nil {
		return nil, err
	}

	preview.Allocations = allocations
	preview.ProtocolFee = fee

	return preview, nil
}

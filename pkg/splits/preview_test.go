package splits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
)

func TestPreviewExecution_DistributesAvailableBalance(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	recipients := []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 5940},
		{Address: generateTestKey(t), Bps: 3960},
	}
	split.writeSplitConfig(env, env.authority(), recipients)
	env.ledger.setTokenBalance(split.vault, 1_000_000)

	preview, err := env.engine.PreviewExecution(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.EqualValues(t, 1_000_000, preview.Available)
	require.Len(t, preview.Allocations, 2)
	assert.EqualValues(t, 594_000, preview.Allocations[0].Amount)
	assert.EqualValues(t, 396_000, preview.Allocations[1].Amount)
	assert.EqualValues(t, 10_000, preview.ProtocolFee)
	assert.Empty(t, preview.PendingUnclaimed)
	assert.Zero(t, preview.PendingProtocolFee)

	// Conservation over the newly available balance.
	total := preview.ProtocolFee
	for _, allocation := range preview.Allocations {
		total += allocation.Amount
	}
	assert.Equal(t, preview.Available, total)
}

func TestPreviewExecution_ExcludesEarmarkedUnclaimed(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	recipient := generateTestKey(t)
	account := split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: recipient, Bps: 9900},
	})
	account.Unclaimed[0] = cascade_splits.UnclaimedEntry{
		Recipient: recipient,
		Amount:    100,
		Timestamp: 1700000000,
	}
	account.ProtocolUnclaimed = 50
	env.ledger.setAccount(split.splitConfig, account.Marshal(), 0)

	// The vault still holds the earmarked 150 on top of new inflow.
	env.ledger.setTokenBalance(split.vault, 1_000_150)

	preview, err := env.engine.PreviewExecution(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.EqualValues(t, 1_000_000, preview.Available)
	require.Len(t, preview.Allocations, 1)
	assert.EqualValues(t, 990_000, preview.Allocations[0].Amount)
	assert.EqualValues(t, 10_000, preview.ProtocolFee)

	require.Len(t, preview.PendingUnclaimed, 1)
	assert.EqualValues(t, 100, preview.PendingUnclaimed[0].Amount)
	assert.EqualValues(t, recipient, preview.PendingUnclaimed[0].Recipient)
	assert.EqualValues(t, 50, preview.PendingProtocolFee)
}

func TestPreviewExecution_EmptyVault(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})

	preview, err := env.engine.PreviewExecution(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Zero(t, preview.Available)
	assert.Empty(t, preview.Allocations)
	assert.Zero(t, preview.ProtocolFee)
}

func TestPreviewExecution_MissingSplit(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	_, err := env.engine.PreviewExecution(context.Background(), split.splitConfig)
	assert.Error(t, err)
}

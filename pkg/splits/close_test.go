package splits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
	"github.com/cascade-protocol/splits-go/pkg/solana/token"
)

func TestClose_AlreadyClosed(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseAlreadyClosed, result.Code)
	assert.Equal(t, 0, env.ledger.submissionCount())
}

func TestClose_BlocksWhenNotAuthority(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, generateTestKey(t), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseBlocked, result.Code)
	require.NotNil(t, result.Block)
	assert.Equal(t, BlockNotAuthority, result.Block.Reason)
}

func TestClose_ReturnsRentToRecordedPayer(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})
	env.ledger.setAccount(split.vault, make([]byte, token.AccountSize), token.AccountSize*testRentPerByte)

	// Warm the identity cache; closing must invalidate it.
	ok, err := env.engine.IsSplitConfig(context.Background(), split.splitConfig)
	require.NoError(t, err)
	require.True(t, ok)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseClosed, result.Code)
	assert.Equal(t, 1, env.ledger.submissionCount())
	assert.EqualValues(t, env.authority(), result.RentPayer)
	assert.EqualValues(t, (cascade_splits.SplitConfigAccountSize+token.AccountSize)*testRentPerByte, result.RentRecovered)

	// The identity cache no longer answers without a read.
	env.ledger.removeAccount(split.splitConfig)
	ok, err = env.engine.IsSplitConfig(context.Background(), split.splitConfig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClose_AutoExecutesNonEmptyVault(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})
	env.ledger.setTokenBalance(split.vault, 500)
	writeProtocolConfig(t, env, generateTestKey(t))

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseClosed, result.Code)
	// One drain execution, then the close itself.
	assert.Equal(t, 2, env.ledger.submissionCount())
}

func TestClose_BlocksNonEmptyVaultWithoutAutoExecute(t *testing.T) {
	env := newTestEnv(t)
	env.autoExecuteOnClose.SetValue(false)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})
	env.ledger.setTokenBalance(split.vault, 500)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseBlocked, result.Code)
	require.NotNil(t, result.Block)
	assert.Equal(t, BlockVaultNotEmpty, result.Block.Reason)
	assert.Equal(t, 0, env.ledger.submissionCount())
}

func TestClose_BlocksPendingUnclaimedWithoutAutoExecute(t *testing.T) {
	env := newTestEnv(t)
	env.autoExecuteOnClose.SetValue(false)
	split := newTestSplit(t, env)

	recipient := generateTestKey(t)
	account := split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: recipient, Bps: 9900},
	})
	account.Unclaimed[0] = cascade_splits.UnclaimedEntry{
		Recipient: recipient,
		Amount:    250,
		Timestamp: 1700000000,
	}
	env.ledger.setAccount(split.splitConfig, account.Marshal(), 0)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseBlocked, result.Code)
	require.NotNil(t, result.Block)
	assert.Equal(t, BlockUnclaimedPending, result.Block.Reason)
}

func TestClose_BlocksWhenDrainSkippedBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	env.minExecuteBalance.SetValue(uint64(1000))
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})
	env.ledger.setTokenBalance(split.vault, 5)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	// The drain skipping is a caller-action condition, not a failure.
	assert.Equal(t, CloseBlocked, result.Code)
	require.NotNil(t, result.Block)
	assert.Equal(t, BlockVaultNotEmpty, result.Block.Reason)
	assert.Nil(t, result.Failure)
	assert.Equal(t, 0, env.ledger.submissionCount())
}

func TestClose_BlocksUnclaimedWhenDrainSkippedBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	env.minExecuteBalance.SetValue(uint64(1000))
	split := newTestSplit(t, env)

	recipient := generateTestKey(t)
	account := split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: recipient, Bps: 9900},
	})
	account.Unclaimed[0] = cascade_splits.UnclaimedEntry{
		Recipient: recipient,
		Amount:    250,
		Timestamp: 1700000000,
	}
	env.ledger.setAccount(split.splitConfig, account.Marshal(), 0)

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseBlocked, result.Code)
	require.NotNil(t, result.Block)
	assert.Equal(t, BlockUnclaimedPending, result.Block.Reason)
	assert.Equal(t, 0, env.ledger.submissionCount())
}

func TestClose_PropagatesDrainFailure(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})
	env.ledger.setTokenBalance(split.vault, 500)
	writeProtocolConfig(t, env, generateTestKey(t))

	env.ledger.queueConfirmation(customProgramError(t, int(cascade_splits.ErrRecipientATADoesNotExist)))

	result, err := env.engine.Close(context.Background(), split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseFailed, result.Code)
	require.NotNil(t, result.Failure)
	assert.Equal(t, uint32(cascade_splits.ErrRecipientATADoesNotExist), result.Failure.Code)
	// Only the failed drain was submitted; the close never went out.
	assert.Equal(t, 1, env.ledger.submissionCount())
}

func TestClose_AbortsOnCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	split := newTestSplit(t, env)

	split.writeSplitConfig(env, env.authority(), []cascade_splits.Recipient{
		{Address: generateTestKey(t), Bps: 9900},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := env.engine.Close(ctx, split.splitConfig)
	require.NoError(t, err)

	assert.Equal(t, CloseAborted, result.Code)
	assert.Equal(t, 0, env.ledger.submissionCount())
}

package splits

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/cascade-protocol/splits-go/pkg/solana"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
)

// Close tears down a split config and returns its rent to the rent payer
// recorded at creation. A nonempty vault or pending unclaimed payouts block
// the close unless auto-execution is enabled, in which case the engine
// drains the split first.
func (e *Engine) Close(ctx context.Context, splitConfig ed25519.PublicKey) (*CloseResult, error) {
	result := &CloseResult{}

	account, lamports, status, err := e.readSplitConfigWithLamports(ctx, splitConfig)
	if err != nil {
		return e.closeReadFailed(ctx, result, err), nil
	}

	switch status {
	case splitReadNotFound:
		result.Code = CloseAlreadyClosed
		return result, nil
	case splitReadNotASplit:
		result.Code = CloseFailed
		result.Failure = &Failure{
			Reason:  FailureProgramError,
			Message: fmt.Sprintf("account %s is not a split config", truncateAddress(splitConfig)),
		}
		return result, nil
	}

	if !bytes.Equal(account.Authority, e.signer.Public()) {
		result.Code = CloseBlocked
		result.Block = &Block{
			Reason:  BlockNotAuthority,
			Message: fmt.Sprintf("split %s is controlled by %s", truncateAddress(splitConfig), truncateAddress(account.Authority)),
		}
		return result, nil
	}

	balance, vaultExists, err := e.ledger.GetTokenBalance(ctx, account.Vault)
	if err != nil {
		return e.closeReadFailed(ctx, result, err), nil
	}
	if !vaultExists {
		balance = 0
	}

	if balance > 0 || account.TotalUnclaimed() > 0 {
		if !e.conf.AutoExecuteOnClose.Get(ctx) {
			result.Code = CloseBlocked
			if balance > 0 {
				result.Block = &Block{
					Reason:  BlockVaultNotEmpty,
					Message: fmt.Sprintf("vault %s holds %d tokens; execute the split first", truncateAddress(account.Vault), balance),
				}
			} else {
				result.Block = &Block{
					Reason:  BlockUnclaimedPending,
					Message: fmt.Sprintf("split %s has unclaimed payouts pending; execute the split first", truncateAddress(splitConfig)),
				}
			}
			return result, nil
		}

		executeResult, err := e.Execute(ctx, splitConfig)
		if err != nil {
			return nil, err
		}
		switch executeResult.Code {
		case ExecuteExecuted:
		case ExecuteAborted:
			result.Code = CloseAborted
			return result, nil
		case ExecuteSkippedNotFound, ExecuteSkippedNotASplit:
			// The split was closed out from under us between reads.
			result.Code = CloseAlreadyClosed
			return result, nil
		case ExecuteSkippedBelowThreshold:
			// The drain was skipped, so whatever blocked the close is still
			// there. The caller must execute below the threshold themselves.
			result.Code = CloseBlocked
			if balance > 0 {
				result.Block = &Block{
					Reason:  BlockVaultNotEmpty,
					Message: fmt.Sprintf("vault %s holds %d tokens below the execute threshold; execute the split first", truncateAddress(account.Vault), balance),
				}
			} else {
				result.Block = &Block{
					Reason:  BlockUnclaimedPending,
					Message: fmt.Sprintf("split %s has unclaimed payouts pending; execute the split first", truncateAddress(splitConfig)),
				}
			}
			return result, nil
		default:
			result.Code = CloseFailed
			result.Failure = executeResult.Failure
			return result, nil
		}

		// The drain changed on-chain state; re-read before closing.
		account, lamports, status, err = e.readSplitConfigWithLamports(ctx, splitConfig)
		if err != nil {
			return e.closeReadFailed(ctx, result, err), nil
		}
		if status != splitReadOK {
			result.Code = CloseAlreadyClosed
			return result, nil
		}
	}

	result.RentPayer = account.RentPayer
	result.RentRecovered = lamports

	// The vault's rent also returns on close when the vault still exists.
	if _, vaultLamports, exists, err := e.ledger.GetAccount(ctx, account.Vault); err == nil && exists {
		result.RentRecovered += vaultLamports
	}

	var instructions []solana.Instruction
	instructions = append(instructions, e.computeBudgetInstructions(ctx)...)
	instructions = append(instructions, cascade_splits.NewCloseSplitConfigInstruction(
		&cascade_splits.CloseSplitConfigInstructionAccounts{
			SplitConfig:     splitConfig,
			Vault:           account.Vault,
			Authority:       e.signer.Public(),
			RentDestination: account.RentPayer,
		},
	).ToLegacyInstruction())

	sig, failure, aborted := e.submitAndConfirm(ctx, instructions)
	if aborted {
		result.Code = CloseAborted
		return result, nil
	}
	if failure != nil {
		result.Code = CloseFailed
		result.Failure = failure
		return result, nil
	}

	result.Code = CloseClosed
	result.Signature = sig

	e.identityCache.Invalidate(base58.Encode(splitConfig))

	e.log.WithFields(map[string]interface{}{
		"split_config": base58.Encode(splitConfig),
		"signature":    base58.Encode(sig[:]),
	}).Debug("closed split config")

	return result, nil
}

func (e *Engine) closeReadFailed(ctx context.Context, result *CloseResult, err error) *CloseResult {
	if ctx.Err() != nil {
		result.Code = CloseAborted
		return result
	}
	result.Code = CloseFailed
	result.Failure = classifyFailure(err)
	return result
}

// readSplitConfigWithLamports is readSplitConfig plus the account's lamport
// balance, needed for rent accounting.
func (e *Engine) readSplitConfigWithLamports(ctx context.Context, address ed25519.PublicKey) (*cascade_splits.SplitConfigAccount, uint64, splitReadStatus, error) {
	data, lamports, exists, err := e.ledger.GetAccount(ctx, address)
	if err != nil {
		return nil, 0, splitReadNotFound, err
	}
	if !exists {
		return nil, 0, splitReadNotFound, nil
	}

	var account cascade_splits.SplitConfigAccount
	if account.Unmarshal(data) != cascade_splits.DecodeOK {
		return nil, 0, splitReadNotASplit, nil
	}

	e.identityCache.MarkValid(base58.Encode(address))

	return &account, lamports, splitReadOK, nil
}

package splits

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/cascade-protocol/splits-go/pkg/solana"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
	"github.com/cascade-protocol/splits-go/pkg/solana/token"
)

// Execute triggers a payout of the vault's balance plus any previously
// unclaimed amounts. Execution is permissionless; the engine's signer only
// pays the transaction fee.
func (e *Engine) Execute(ctx context.Context, splitConfig ed25519.PublicKey) (*ExecuteResult, error) {
	result := &ExecuteResult{}

	account, status, err := e.readSplitConfig(ctx, splitConfig)
	if err != nil {
		if ctx.Err() != nil {
			result.Code = ExecuteAborted
			return result, nil
		}
		result.Code = ExecuteFailed
		result.Failure = classifyFailure(err)
		return result, nil
	}

	switch status {
	case splitReadNotFound:
		result.Code = ExecuteSkippedNotFound
		return result, nil
	case splitReadNotASplit:
		result.Code = ExecuteSkippedNotASplit
		return result, nil
	}

	tokenProgram, err := resolveTokenProgram(splitConfig, account)
	if err != nil {
		result.Code = ExecuteFailed
		result.Failure = &Failure{
			Reason:  FailureProgramError,
			Message: err.Error(),
			Cause:   err,
		}
		return result, nil
	}

	balance, exists, err := e.ledger.GetTokenBalance(ctx, account.Vault)
	if err != nil {
		if ctx.Err() != nil {
			result.Code = ExecuteAborted
			return result, nil
		}
		result.Code = ExecuteFailed
		result.Failure = classifyFailure(err)
		return result, nil
	}
	if !exists {
		balance = 0
	}

	if threshold := e.conf.MinExecuteBalance.Get(ctx); threshold > 0 && balance < threshold {
		result.Code = ExecuteSkippedBelowThreshold
		return result, nil
	}

	recipients := account.LiveRecipients()

	receivingAccounts := make([]ed25519.PublicKey, len(recipients))
	for i, recipient := range recipients {
		receivingAccounts[i], err = cascade_splits.GetReceivingAddress(&cascade_splits.GetReceivingAddressArgs{
			Recipient:    recipient.Address,
			Mint:         account.Mint,
			TokenProgram: tokenProgram,
		})
		if err != nil {
			return nil, err
		}
	}

	// One retry is allowed when the program rejects a stale fee recipient,
	// with a cache refresh in between. Any other failure is final.
	for attempt := 0; attempt < 2; attempt++ {
		protocolConfig, protocolConfigAddress, err := e.getProtocolConfig(ctx)
		if err != nil {
			if ctx.Err() != nil {
				result.Code = ExecuteAborted
				return result, nil
			}
			result.Code = ExecuteFailed
			result.Failure = classifyFailure(err)
			return result, nil
		}

		protocolFeeAccount, err := cascade_splits.GetReceivingAddress(&cascade_splits.GetReceivingAddressArgs{
			Recipient:    protocolConfig.FeeWallet,
			Mint:         account.Mint,
			TokenProgram: tokenProgram,
		})
		if err != nil {
			return nil, err
		}

		var instructions []solana.Instruction
		instructions = append(instructions, e.computeBudgetInstructions(ctx)...)
		instructions = append(instructions, cascade_splits.NewExecuteSplitInstruction(
			&cascade_splits.ExecuteSplitInstructionAccounts{
				SplitConfig:        splitConfig,
				Vault:              account.Vault,
				Mint:               account.Mint,
				ProtocolConfig:     protocolConfigAddress,
				Executor:           e.signer.Public(),
				TokenProgram:       tokenProgram,
				ReceivingAccounts:  receivingAccounts,
				ProtocolFeeAccount: protocolFeeAccount,
			},
		).ToLegacyInstruction())

		sig, failure, aborted := e.submitAndConfirm(ctx, instructions)
		if aborted {
			result.Code = ExecuteAborted
			return result, nil
		}
		if failure != nil {
			if attempt == 0 && isStaleFeeRecipient(failure) {
				e.protocolConfigCache.Invalidate()
				continue
			}
			result.Code = ExecuteFailed
			result.Signature = sig
			result.Failure = failure
			return result, nil
		}

		result.Code = ExecuteExecuted
		result.Signature = sig

		e.log.WithFields(map[string]interface{}{
			"split_config": base58.Encode(splitConfig),
			"signature":    base58.Encode(sig[:]),
		}).Debug("executed split")

		return result, nil
	}

	return result, nil
}

// resolveTokenProgram recovers a split's token program from its recorded
// vault address. The account does not store the program directly, but the
// vault is an associated token account of the split config, so only one
// program's derivation can reproduce it.
func resolveTokenProgram(splitConfig ed25519.PublicKey, account *cascade_splits.SplitConfigAccount) (ed25519.PublicKey, error) {
	for _, tokenProgram := range []ed25519.PublicKey{token.ProgramKey, token.Token2022ProgramKey} {
		derived, err := cascade_splits.GetVaultAddress(&cascade_splits.GetVaultAddressArgs{
			SplitConfig:  splitConfig,
			Mint:         account.Mint,
			TokenProgram: tokenProgram,
		})
		if err != nil {
			return nil, err
		}
		if bytes.Equal(derived, account.Vault) {
			return tokenProgram, nil
		}
	}
	return nil, fmt.Errorf("vault %s is not an associated token account of the split config", truncateAddress(account.Vault))
}

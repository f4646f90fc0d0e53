package splits

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"

	"github.com/cascade-protocol/splits-go/pkg/distribution"
	"github.com/cascade-protocol/splits-go/pkg/solana"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
	"github.com/cascade-protocol/splits-go/pkg/solana/token"
)

var (
	ErrNoRecipients         = errors.New("desired split has no recipients")
	ErrTooManyRecipients    = errors.New("desired split exceeds the recipient capacity")
	ErrDuplicateRecipient   = errors.New("desired split contains a duplicate recipient")
	ErrZeroRecipientAddress = errors.New("desired split contains an empty recipient address")
	ErrInvalidSplitTotal    = errors.New("desired split's basis points must sum to 9900")
)

// DesiredRecipient is a payout target expressed either as a percentage
// share or as raw basis points. Bps takes precedence when nonzero.
type DesiredRecipient struct {
	Address ed25519.PublicKey
	Share   uint8
	Bps     uint16
}

// DesiredSplit is the caller's declarative intent. The authority is always
// the engine's signer.
type DesiredSplit struct {
	Mint ed25519.PublicKey

	// TokenProgram selects the SPL Token or Token-2022 variant. Defaults to
	// SPL Token.
	TokenProgram ed25519.PublicKey

	UniqueID cascade_splits.UniqueID

	Recipients []DesiredRecipient
}

// normalizeRecipients translates the desired recipients into on-chain basis
// points and validates the result. Violations are programmer errors and are
// raised synchronously.
func normalizeRecipients(desired []DesiredRecipient) ([]cascade_splits.Recipient, error) {
	if len(desired) == 0 {
		return nil, ErrNoRecipients
	}
	if len(desired) > cascade_splits.MaxRecipients {
		return nil, ErrTooManyRecipients
	}

	seen := make(map[string]struct{}, len(desired))
	recipients := make([]cascade_splits.Recipient, len(desired))
	var totalBps uint32

	for i, r := range desired {
		if len(r.Address) != ed25519.PublicKeySize || bytes.Equal(r.Address, make([]byte, ed25519.PublicKeySize)) {
			return nil, ErrZeroRecipientAddress
		}

		key := string(r.Address)
		if _, ok := seen[key]; ok {
			return nil, ErrDuplicateRecipient
		}
		seen[key] = struct{}{}

		bps := r.Bps
		if bps == 0 {
			converted, err := distribution.ShareToBasisPoints(r.Share)
			if err != nil {
				return nil, err
			}
			bps = converted
		}

		recipients[i] = cascade_splits.Recipient{Address: r.Address, Bps: bps}
		totalBps += uint32(bps)
	}

	if totalBps != distribution.RecipientPoolBps {
		return nil, ErrInvalidSplitTotal
	}

	return recipients, nil
}

// recipientSetsEqual compares recipient lists as sets: same addresses with
// the same basis points, order-independent.
func recipientSetsEqual(a, b []cascade_splits.Recipient) bool {
	if len(a) != len(b) {
		return false
	}

	set := make(map[string]uint16, len(a))
	for _, r := range a {
		set[string(r.Address)] = r.Bps
	}
	for _, r := range b {
		bps, ok := set[string(r.Address)]
		if !ok || bps != r.Bps {
			return false
		}
	}
	return true
}

// Ensure reconciles the desired split against on-chain state: it creates a
// missing split, updates a divergent one, and does nothing when state
// already matches. The call is idempotent; repeating it with the same
// desired state never submits a second transaction.
func (e *Engine) Ensure(ctx context.Context, desired *DesiredSplit) (*EnsureResult, error) {
	recipients, err := normalizeRecipients(desired.Recipients)
	if err != nil {
		return nil, err
	}

	tokenProgram := desired.TokenProgram
	if tokenProgram == nil {
		tokenProgram = token.ProgramKey
	}

	authority := e.signer.Public()

	splitConfig, _, err := cascade_splits.GetSplitConfigAddress(&cascade_splits.GetSplitConfigAddressArgs{
		Authority: authority,
		Mint:      desired.Mint,
		UniqueID:  desired.UniqueID,
	})
	if err != nil {
		return nil, err
	}

	vault, err := cascade_splits.GetVaultAddress(&cascade_splits.GetVaultAddressArgs{
		SplitConfig:  splitConfig,
		Mint:         desired.Mint,
		TokenProgram: tokenProgram,
	})
	if err != nil {
		return nil, err
	}

	result := &EnsureResult{
		SplitConfig: splitConfig,
		Vault:       vault,
	}

	account, status, err := e.readSplitConfig(ctx, splitConfig)
	if err != nil {
		return e.ensureReadFailed(ctx, result, err), nil
	}

	switch status {
	case splitReadNotFound:
		return e.ensureCreate(ctx, result, desired, recipients, tokenProgram, splitConfig, vault), nil
	case splitReadNotASplit:
		result.Code = EnsureFailed
		result.Failure = &Failure{
			Reason:  FailureProgramError,
			Message: fmt.Sprintf("account %s at the derived address is not a split config", truncateAddress(splitConfig)),
		}
		return result, nil
	}

	if !bytes.Equal(account.Authority, authority) {
		result.Code = EnsureBlocked
		result.Block = &Block{
			Reason:  BlockNotAuthority,
			Message: fmt.Sprintf("split %s is controlled by %s", truncateAddress(splitConfig), truncateAddress(account.Authority)),
		}
		return result, nil
	}

	if recipientSetsEqual(account.LiveRecipients(), recipients) {
		result.Code = EnsureNoChange
		return result, nil
	}

	return e.ensureUpdate(ctx, result, account, recipients, desired.Mint, tokenProgram, splitConfig, vault), nil
}

func (e *Engine) ensureReadFailed(ctx context.Context, result *EnsureResult, err error) *EnsureResult {
	if ctx.Err() != nil {
		result.Code = EnsureAborted
		return result
	}
	result.Code = EnsureFailed
	result.Failure = classifyFailure(err)
	return result
}

func (e *Engine) ensureCreate(
	ctx context.Context,
	result *EnsureResult,
	desired *DesiredSplit,
	recipients []cascade_splits.Recipient,
	tokenProgram ed25519.PublicKey,
	splitConfig, vault ed25519.PublicKey,
) *EnsureResult {
	receivingAccounts, missingOwners, unusableOwners, err := e.missingReceivingAccounts(ctx, recipients, desired.Mint, tokenProgram)
	if err != nil {
		return e.ensureReadFailed(ctx, result, err)
	}
	if len(unusableOwners) > 0 {
		result.Code = EnsureBlocked
		result.Block = &Block{
			Reason:  BlockReceivingAccountsMissing,
			Message: fmt.Sprintf("recipients %s have an unusable receiving account", truncateAddressList(unusableOwners)),
		}
		return result
	}

	var instructions []solana.Instruction
	instructions = append(instructions, e.computeBudgetInstructions(ctx)...)

	if len(missingOwners) > 0 {
		if !e.conf.CreateMissingReceivingAccounts.Get(ctx) {
			result.Code = EnsureBlocked
			result.Block = &Block{
				Reason:  BlockReceivingAccountsMissing,
				Message: fmt.Sprintf("recipients %s have no receiving account", truncateAddressList(missingOwners)),
			}
			return result
		}

		creates, err := e.createReceivingAccountInstructions(missingOwners, desired.Mint, tokenProgram)
		if err != nil {
			return e.ensureReadFailed(ctx, result, err)
		}
		instructions = append(instructions, creates...)
	}

	instructions = append(instructions, cascade_splits.NewCreateSplitConfigInstruction(
		&cascade_splits.CreateSplitConfigInstructionAccounts{
			SplitConfig:       splitConfig,
			UniqueID:          ed25519.PublicKey(desired.UniqueID[:]),
			Authority:         e.signer.Public(),
			Payer:             e.signer.Public(),
			Mint:              desired.Mint,
			Vault:             vault,
			TokenProgram:      tokenProgram,
			ReceivingAccounts: receivingAccounts,
		},
		&cascade_splits.CreateSplitConfigInstructionArgs{
			Mint:       desired.Mint,
			Recipients: recipients,
		},
	).ToLegacyInstruction())

	sig, failure, aborted := e.submitAndConfirm(ctx, instructions)
	if aborted {
		result.Code = EnsureAborted
		return result
	}
	if failure != nil {
		result.Code = EnsureFailed
		result.Failure = failure
		return result
	}

	result.Code = EnsureCreated
	result.Signature = sig
	result.RentPaid = e.estimateCreateRent(ctx)

	e.identityCache.MarkValid(base58.Encode(splitConfig))

	e.log.WithFields(map[string]interface{}{
		"split_config": base58.Encode(splitConfig),
		"signature":    base58.Encode(sig[:]),
	}).Debug("created split config")

	return result
}

func (e *Engine) ensureUpdate(
	ctx context.Context,
	result *EnsureResult,
	account *cascade_splits.SplitConfigAccount,
	recipients []cascade_splits.Recipient,
	mint, tokenProgram ed25519.PublicKey,
	splitConfig, vault ed25519.PublicKey,
) *EnsureResult {
	balance, exists, err := e.ledger.GetTokenBalance(ctx, vault)
	if err != nil {
		return e.ensureReadFailed(ctx, result, err)
	}
	if exists && balance > 0 {
		result.Code = EnsureBlocked
		result.Block = &Block{
			Reason:  BlockVaultNotEmpty,
			Message: fmt.Sprintf("vault %s holds %d tokens; execute the split first", truncateAddress(vault), balance),
		}
		return result
	}

	if account.TotalUnclaimed() > 0 {
		result.Code = EnsureBlocked
		result.Block = &Block{
			Reason:  BlockUnclaimedPending,
			Message: fmt.Sprintf("split %s has unclaimed payouts pending; execute the split first", truncateAddress(splitConfig)),
		}
		return result
	}

	receivingAccounts, missingOwners, unusableOwners, err := e.missingReceivingAccounts(ctx, recipients, mint, tokenProgram)
	if err != nil {
		return e.ensureReadFailed(ctx, result, err)
	}
	if len(unusableOwners) > 0 {
		result.Code = EnsureBlocked
		result.Block = &Block{
			Reason:  BlockReceivingAccountsMissing,
			Message: fmt.Sprintf("recipients %s have an unusable receiving account", truncateAddressList(unusableOwners)),
		}
		return result
	}

	var instructions []solana.Instruction
	instructions = append(instructions, e.computeBudgetInstructions(ctx)...)

	if len(missingOwners) > 0 {
		if !e.conf.CreateMissingReceivingAccounts.Get(ctx) {
			result.Code = EnsureBlocked
			result.Block = &Block{
				Reason:  BlockReceivingAccountsMissing,
				Message: fmt.Sprintf("recipients %s have no receiving account", truncateAddressList(missingOwners)),
			}
			return result
		}

		creates, err := e.createReceivingAccountInstructions(missingOwners, mint, tokenProgram)
		if err != nil {
			return e.ensureReadFailed(ctx, result, err)
		}
		instructions = append(instructions, creates...)
	}

	instructions = append(instructions, cascade_splits.NewUpdateSplitConfigInstruction(
		&cascade_splits.UpdateSplitConfigInstructionAccounts{
			SplitConfig:       splitConfig,
			Vault:             vault,
			Mint:              mint,
			Authority:         e.signer.Public(),
			TokenProgram:      tokenProgram,
			ReceivingAccounts: receivingAccounts,
		},
		&cascade_splits.UpdateSplitConfigInstructionArgs{
			Recipients: recipients,
		},
	).ToLegacyInstruction())

	sig, failure, aborted := e.submitAndConfirm(ctx, instructions)
	if aborted {
		result.Code = EnsureAborted
		return result
	}
	if failure != nil {
		result.Code = EnsureFailed
		result.Failure = failure
		return result
	}

	result.Code = EnsureUpdated
	result.Signature = sig

	e.log.WithFields(map[string]interface{}{
		"split_config": base58.Encode(splitConfig),
		"signature":    base58.Encode(sig[:]),
	}).Debug("updated split config")

	return result
}

// estimateCreateRent is a best-effort accounting of the rent paid for the
// split config and its vault.
func (e *Engine) estimateCreateRent(ctx context.Context) uint64 {
	configRent, err := e.ledger.GetMinimumBalanceForRentExemption(ctx, cascade_splits.SplitConfigAccountSize)
	if err != nil {
		return 0
	}
	vaultRent, err := e.ledger.GetMinimumBalanceForRentExemption(ctx, token.AccountSize)
	if err != nil {
		return configRent
	}
	return configRent + vaultRent
}

func truncateAddressList(addresses []ed25519.PublicKey) string {
	truncated := make([]string, len(addresses))
	for i, address := range addresses {
		truncated[i] = truncateAddress(address)
	}
	return strings.Join(truncated, ", ")
}

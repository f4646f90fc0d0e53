// Package splits reconciles desired split configurations against
// authoritative on-chain state. Every public operation is stateless,
// idempotent, and classifies its result into a tagged outcome.
package splits

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cascade-protocol/splits-go/pkg/solana"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
	"github.com/cascade-protocol/splits-go/pkg/solana/computebudget"
	"github.com/cascade-protocol/splits-go/pkg/solana/token"
)

// Engine drives ensure, execute and close operations against the ledger.
// It is safe for concurrent use; the only shared mutable state is the two
// caches, and correctness under races is enforced by the program's own
// atomic state transitions.
type Engine struct {
	log    *logrus.Entry
	ledger Ledger
	signer Signer
	conf   *Config

	identityCache       *IdentityCache
	protocolConfigCache *ProtocolConfigCache
}

// NewEngine returns an engine with isolated cache instances.
func NewEngine(ledger Ledger, signer Signer, conf *Config) *Engine {
	if conf == nil {
		conf = DefaultConfig()
	}

	return &Engine{
		log:                 logrus.StandardLogger().WithField("type", "splits/engine"),
		ledger:              ledger,
		signer:              signer,
		conf:                conf,
		identityCache:       NewIdentityCache(),
		protocolConfigCache: NewProtocolConfigCache(),
	}
}

// IdentityCache exposes the split-identity cache for explicit invalidation.
func (e *Engine) IdentityCache() *IdentityCache {
	return e.identityCache
}

// ProtocolConfigCache exposes the protocol-config cache for explicit
// invalidation.
func (e *Engine) ProtocolConfigCache() *ProtocolConfigCache {
	return e.protocolConfigCache
}

type splitReadStatus uint8

const (
	splitReadOK splitReadStatus = iota
	splitReadNotFound
	splitReadNotASplit
)

// readSplitConfig fetches and decodes a split config, distinguishing a
// missing account from one with the wrong shape.
func (e *Engine) readSplitConfig(ctx context.Context, address ed25519.PublicKey) (*cascade_splits.SplitConfigAccount, splitReadStatus, error) {
	account, _, status, err := e.readSplitConfigWithLamports(ctx, address)
	return account, status, err
}

// IsSplitConfig reports whether the address holds a well-formed split
// config. Positive answers are cached; negative answers always re-read.
func (e *Engine) IsSplitConfig(ctx context.Context, address ed25519.PublicKey) (bool, error) {
	if e.identityCache.Get(base58.Encode(address)) {
		return true, nil
	}

	_, status, err := e.readSplitConfig(ctx, address)
	if err != nil {
		return false, err
	}

	return status == splitReadOK, nil
}

// getProtocolConfig returns the protocol's singleton config, served from
// cache when valid.
func (e *Engine) getProtocolConfig(ctx context.Context) (*cascade_splits.ProtocolConfigAccount, ed25519.PublicKey, error) {
	address, _, err := cascade_splits.GetProtocolConfigAddress()
	if err != nil {
		return nil, nil, err
	}

	if cached, ok := e.protocolConfigCache.Get(); ok {
		return cached, address, nil
	}

	data, _, exists, err := e.ledger.GetAccount(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, errors.New("protocol config account not found")
	}

	var account cascade_splits.ProtocolConfigAccount
	if account.Unmarshal(data) != cascade_splits.DecodeOK {
		return nil, nil, errors.New("protocol config account is malformed")
	}

	e.protocolConfigCache.Set(&account)

	return &account, address, nil
}

// computeBudgetInstructions returns the optional compute budget hints as
// instructions to prepend.
func (e *Engine) computeBudgetInstructions(ctx context.Context) []solana.Instruction {
	var instructions []solana.Instruction

	if limit := e.conf.ComputeUnitLimit.Get(ctx); limit > 0 {
		instructions = append(instructions, computebudget.SetComputeUnitLimit(uint32(limit)))
	}
	if price := e.conf.ComputeUnitPrice.Get(ctx); price > 0 {
		instructions = append(instructions, computebudget.SetComputeUnitPrice(price))
	}

	return instructions
}

// submitAndConfirm signs, submits and waits on a transaction. Exactly one
// of the return values is set: a signature on success, a failure on any
// transport/signing/program rejection, or aborted when ctx was cancelled.
func (e *Engine) submitAndConfirm(ctx context.Context, instructions []solana.Instruction) (solana.Signature, *Failure, bool) {
	var zero solana.Signature

	if ctx.Err() != nil {
		return zero, nil, true
	}

	blockhash, err := e.ledger.GetRecentContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return zero, nil, true
		}
		return zero, classifyFailure(err), false
	}

	txn := solana.NewTransaction(e.signer.Public(), instructions...)
	txn.SetBlockhash(blockhash)

	if err := e.signer.Sign(&txn); err != nil {
		return zero, classifyFailure(err), false
	}

	// Last cancellation check before the transaction leaves the process.
	if ctx.Err() != nil {
		return zero, nil, true
	}

	sig, err := e.ledger.Submit(ctx, txn)
	if err != nil {
		if ctx.Err() != nil {
			return zero, nil, true
		}
		return sig, classifyFailure(err), false
	}

	confirmCtx, cancel := context.WithTimeout(ctx, e.conf.ConfirmationTimeout.Get(ctx))
	defer cancel()

	status, err := e.ledger.WaitForConfirmation(confirmCtx, sig)
	if err != nil {
		// The transaction is already out; a cancelled parent context is an
		// abort, an expired confirmation window is a timeout failure.
		if ctx.Err() != nil {
			return sig, nil, true
		}
		if confirmCtx.Err() != nil {
			return sig, &Failure{
				Reason:  FailureTransactionExpired,
				Message: "the transaction was not confirmed before the wait bound",
				Cause:   confirmCtx.Err(),
			}, false
		}
		return sig, classifyFailure(err), false
	}

	if status != nil && status.ErrorResult != nil {
		return sig, classifyTransactionError(status.ErrorResult), false
	}

	return sig, nil, false
}

// missingReceivingAccounts derives every recipient's receiving account and
// classifies each one: missing accounts can be created, unusable ones
// (wrong shape, wrong mint, or frozen) cannot.
func (e *Engine) missingReceivingAccounts(
	ctx context.Context,
	recipients []cascade_splits.Recipient,
	mint, tokenProgram ed25519.PublicKey,
) (receivingAccounts, missingOwners, unusableOwners []ed25519.PublicKey, err error) {
	for _, recipient := range recipients {
		receivingAccount, err := cascade_splits.GetReceivingAddress(&cascade_splits.GetReceivingAddressArgs{
			Recipient:    recipient.Address,
			Mint:         mint,
			TokenProgram: tokenProgram,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		receivingAccounts = append(receivingAccounts, receivingAccount)

		data, _, exists, err := e.ledger.GetAccount(ctx, receivingAccount)
		if err != nil {
			return nil, nil, nil, err
		}
		if !exists {
			missingOwners = append(missingOwners, recipient.Address)
			continue
		}

		var tokenAccount token.Account
		if !tokenAccount.Unmarshal(data) ||
			!bytes.Equal(tokenAccount.Mint, mint) ||
			tokenAccount.State == token.AccountStateFrozen {
			unusableOwners = append(unusableOwners, recipient.Address)
		}
	}

	return receivingAccounts, missingOwners, unusableOwners, nil
}

// createReceivingAccountInstructions builds idempotent associated token
// account creations for the given owners.
func (e *Engine) createReceivingAccountInstructions(owners []ed25519.PublicKey, mint, tokenProgram ed25519.PublicKey) ([]solana.Instruction, error) {
	var instructions []solana.Instruction
	for _, owner := range owners {
		instruction, _, err := token.CreateAssociatedTokenAccountIdempotent(
			e.signer.Public(),
			owner,
			mint,
			tokenProgram,
		)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, instruction)
	}
	return instructions, nil
}

package splits

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/cascade-protocol/splits-go/pkg/solana"
)

// Ledger is the capability surface the engine needs from a chain: account
// reads, balance reads, recency context, submission, and confirmation.
// Reconciliation logic is written against this interface so the outcome
// semantics stay chain-agnostic.
type Ledger interface {
	// GetAccount returns an account's raw data and lamport balance, or
	// exists=false when there is no account at the address.
	GetAccount(ctx context.Context, address ed25519.PublicKey) (data []byte, lamports uint64, exists bool, err error)

	// GetTokenBalance returns the token balance of a token account, or
	// exists=false when the account does not exist.
	GetTokenBalance(ctx context.Context, address ed25519.PublicKey) (balance uint64, exists bool, err error)

	// GetMinimumBalanceForRentExemption returns the rent-exempt reserve for
	// an account of the given size.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// GetRecentContext returns the recency token required for a valid
	// submission.
	GetRecentContext(ctx context.Context) (solana.Blockhash, error)

	// Submit sends a signed transaction.
	Submit(ctx context.Context, txn solana.Transaction) (solana.Signature, error)

	// WaitForConfirmation blocks until the signature reaches the configured
	// commitment, the wait bound is exhausted, or ctx is done.
	WaitForConfirmation(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error)
}

type solanaLedger struct {
	client solana.Client
	conf   *Config
}

// NewSolanaLedger adapts a solana.Client into the engine's Ledger. Reads,
// submission, and confirmation all use the commitment from conf, so the
// adapter and the engine it feeds share one configuration.
func NewSolanaLedger(client solana.Client, conf *Config) Ledger {
	return &solanaLedger{
		client: client,
		conf:   conf,
	}
}

func (l *solanaLedger) GetAccount(ctx context.Context, address ed25519.PublicKey) ([]byte, uint64, bool, error) {
	accountInfo, err := l.client.GetAccountInfo(ctx, address, l.conf.Commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, 0, false, nil
	} else if err != nil {
		return nil, 0, false, errors.Wrap(err, "failed to get account info")
	}

	return accountInfo.Data, accountInfo.Lamports, true, nil
}

func (l *solanaLedger) GetTokenBalance(ctx context.Context, address ed25519.PublicKey) (uint64, bool, error) {
	balance, err := l.client.GetTokenAccountBalance(ctx, address, l.conf.Commitment)
	if err == solana.ErrNoBalance {
		return 0, false, nil
	} else if err != nil {
		return 0, false, errors.Wrap(err, "failed to get token account balance")
	}

	return balance, true, nil
}

func (l *solanaLedger) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return l.client.GetMinimumBalanceForRentExemption(ctx, size)
}

func (l *solanaLedger) GetRecentContext(ctx context.Context) (solana.Blockhash, error) {
	return l.client.GetLatestBlockhash(ctx)
}

func (l *solanaLedger) Submit(ctx context.Context, txn solana.Transaction) (solana.Signature, error) {
	return l.client.SubmitTransaction(ctx, txn, l.conf.Commitment)
}

func (l *solanaLedger) WaitForConfirmation(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error) {
	return l.client.WaitForConfirmation(ctx, sig, l.conf.Commitment)
}

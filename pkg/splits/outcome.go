package splits

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/cascade-protocol/splits-go/pkg/solana"
)

// Outcomes are tagged results. Expected divergence (not found, no change,
// blocked) is reported through codes, never through errors; only transport
// and signing problems produce a Failure.

type EnsureCode uint8

const (
	EnsureCreated EnsureCode = iota
	EnsureNoChange
	EnsureUpdated
	EnsureBlocked
	EnsureFailed
	EnsureAborted
)

type ExecuteCode uint8

const (
	ExecuteExecuted ExecuteCode = iota
	ExecuteSkippedNotFound
	ExecuteSkippedNotASplit
	ExecuteSkippedBelowThreshold
	ExecuteFailed
	ExecuteAborted
)

type CloseCode uint8

const (
	CloseClosed CloseCode = iota
	CloseAlreadyClosed
	CloseBlocked
	CloseFailed
	CloseAborted
)

// BlockReason identifies a condition the caller must resolve before the
// operation can proceed.
type BlockReason uint8

const (
	BlockVaultNotEmpty BlockReason = iota
	BlockUnclaimedPending
	BlockNotAuthority
	BlockReceivingAccountsMissing
)

// Block carries a block reason with a short human-readable explanation.
type Block struct {
	Reason  BlockReason
	Message string
}

// FailureReason classifies a failed submission.
type FailureReason uint8

const (
	FailureWalletRejected FailureReason = iota
	FailureWalletDisconnected
	FailureNetworkError
	FailureTransactionExpired
	FailureProgramError
)

// Failure describes why a submission failed. Code and Message are populated
// for program errors when the rejection was decodable.
type Failure struct {
	Reason  FailureReason
	Code    uint32
	Message string
	Cause   error
}

func (f *Failure) String() string {
	if f == nil {
		return "<nil>"
	}
	if f.Reason == FailureProgramError {
		return fmt.Sprintf("program error %d: %s", f.Code, f.Message)
	}
	return f.Message
}

// EnsureResult is the outcome of Engine.Ensure.
type EnsureResult struct {
	Code EnsureCode

	SplitConfig ed25519.PublicKey
	Vault       ed25519.PublicKey

	// Signature is set when a transaction was submitted (created, updated).
	Signature solana.Signature

	// RentPaid is the lamports paid for new accounts on create, best effort.
	RentPaid uint64

	Block   *Block
	Failure *Failure
}

// ExecuteResult is the outcome of Engine.Execute.
type ExecuteResult struct {
	Code ExecuteCode

	Signature solana.Signature

	Failure *Failure
}

// CloseResult is the outcome of Engine.Close.
type CloseResult struct {
	Code CloseCode

	Signature solana.Signature

	// RentRecovered is the lamports returned to the recorded rent payer.
	RentRecovered uint64
	RentPayer     ed25519.PublicKey

	Block   *Block
	Failure *Failure
}

// truncateAddress shortens an address for explanatory messages.
func truncateAddress(address ed25519.PublicKey) string {
	encoded := base58.Encode(address)
	if len(encoded) <= 8 {
		return encoded
	}
	return encoded[:4] + ".." + encoded[len(encoded)-4:]
}

package splits

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/cascade-protocol/splits-go/pkg/solana"
)

var (
	// ErrUserRejected indicates the wallet's owner declined to sign.
	ErrUserRejected = errors.New("signer: user rejected")

	// ErrWalletDisconnected indicates the wallet is no longer reachable.
	ErrWalletDisconnected = errors.New("signer: wallet disconnected")
)

// Signer signs constructed transactions. Wallet-backed implementations
// report refusal through ErrUserRejected and loss of connection through
// ErrWalletDisconnected so the engine can classify failures.
type Signer interface {
	Public() ed25519.PublicKey
	Sign(txn *solana.Transaction) error
}

type localSigner struct {
	key ed25519.PrivateKey
}

// NewLocalSigner returns a Signer backed by an in-process keypair.
func NewLocalSigner(key ed25519.PrivateKey) Signer {
	return &localSigner{key: key}
}

func (s *localSigner) Public() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *localSigner) Sign(txn *solana.Transaction) error {
	return txn.Sign(s.key)
}

package cascade_splits

import (
	"crypto/ed25519"

	"github.com/cascade-protocol/splits-go/pkg/solana"
	"github.com/cascade-protocol/splits-go/pkg/solana/token"
)

var (
	protocolConfigPrefix = []byte("protocol_config")
	splitConfigPrefix    = []byte("split_config")
)

type GetSplitConfigAddressArgs struct {
	Authority ed25519.PublicKey
	Mint      ed25519.PublicKey
	UniqueID  UniqueID
}

func GetProtocolConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		protocolConfigPrefix,
	)
}

func GetSplitConfigAddress(args *GetSplitConfigAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		splitConfigPrefix,
		args.Authority,
		args.Mint,
		args.UniqueID[:],
	)
}

type GetVaultAddressArgs struct {
	SplitConfig  ed25519.PublicKey
	Mint         ed25519.PublicKey
	TokenProgram ed25519.PublicKey
}

// GetVaultAddress returns the vault for a split config, which is its
// associated token account for the mint.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(args.SplitConfig, args.Mint, args.TokenProgram)
}

type GetReceivingAddressArgs struct {
	Recipient    ed25519.PublicKey
	Mint         ed25519.PublicKey
	TokenProgram ed25519.PublicKey
}

// GetReceivingAddress returns the receiving account a recipient is paid
// into, which is its associated token account for the mint.
func GetReceivingAddress(args *GetReceivingAddressArgs) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(args.Recipient, args.Mint, args.TokenProgram)
}

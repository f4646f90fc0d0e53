package cascade_splits

import (
	"crypto/ed25519"
)

var closeSplitConfigInstructionDiscriminator = []byte{
	0xaa, 0xca, 0xfc, 0x5c, 0xc4, 0xa0, 0xf7, 0xe5,
}

type CloseSplitConfigInstructionAccounts struct {
	SplitConfig ed25519.PublicKey
	Vault       ed25519.PublicKey
	Authority   ed25519.PublicKey

	// RentDestination receives the reclaimed rent. The program requires it
	// to be the rent payer recorded at creation, not the caller.
	RentDestination ed25519.PublicKey
}

func NewCloseSplitConfigInstruction(
	accounts *CloseSplitConfigInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, 8)
	putDiscriminator(data, closeSplitConfigInstructionDiscriminator, &offset)

	return Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.SplitConfig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.RentDestination,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

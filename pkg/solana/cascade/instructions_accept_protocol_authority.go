package cascade_splits

import (
	"crypto/ed25519"
)

var acceptProtocolAuthorityInstructionDiscriminator = []byte{
	0xed, 0x7a, 0x06, 0x27, 0x35, 0xca, 0x8d, 0x71,
}

type AcceptProtocolAuthorityInstructionAccounts struct {
	ProtocolConfig ed25519.PublicKey

	// NewAuthority must match the pending authority recorded by a prior
	// transfer.
	NewAuthority ed25519.PublicKey
}

func NewAcceptProtocolAuthorityInstruction(
	accounts *AcceptProtocolAuthorityInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, 8)
	putDiscriminator(data, acceptProtocolAuthorityInstructionDiscriminator, &offset)

	return Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.ProtocolConfig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.NewAuthority,
				IsWritable: false,
				IsSigner:   true,
			},
		},
	}
}

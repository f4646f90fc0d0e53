package cascade_splits

import (
	"crypto/ed25519"
)

var transferProtocolAuthorityInstructionDiscriminator = []byte{
	0x23, 0x4c, 0x24, 0x4d, 0x88, 0x70, 0x9e, 0xde,
}

const transferProtocolAuthorityInstructionArgsSize = 32 // new_authority

type TransferProtocolAuthorityInstructionArgs struct {
	NewAuthority ed25519.PublicKey
}

type TransferProtocolAuthorityInstructionAccounts struct {
	ProtocolConfig ed25519.PublicKey
	Authority      ed25519.PublicKey
}

func NewTransferProtocolAuthorityInstruction(
	accounts *TransferProtocolAuthorityInstructionAccounts,
	args *TransferProtocolAuthorityInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, 8+transferProtocolAuthorityInstructionArgsSize)

	putDiscriminator(data, transferProtocolAuthorityInstructionDiscriminator, &offset)
	putKey(data, args.NewAuthority, &offset)

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
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
		},
	}
}

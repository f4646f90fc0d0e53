package cascade_splits

import (
	"crypto/ed25519"
)

var updateProtocolConfigInstructionDiscriminator = []byte{
	0xc5, 0x61, 0x7b, 0x36, 0xdd, 0xa8, 0x0b, 0x87,
}

const updateProtocolConfigInstructionArgsSize = 32 // new_fee_wallet

type UpdateProtocolConfigInstructionArgs struct {
	NewFeeWallet ed25519.PublicKey
}

type UpdateProtocolConfigInstructionAccounts struct {
	ProtocolConfig ed25519.PublicKey
	Authority      ed25519.PublicKey
}

func NewUpdateProtocolConfigInstruction(
	accounts *UpdateProtocolConfigInstructionAccounts,
	args *UpdateProtocolConfigInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, 8+updateProtocolConfigInstructionArgsSize)

	putDiscriminator(data, updateProtocolConfigInstructionDiscriminator, &offset)
	putKey(data, args.NewFeeWallet, &offset)

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

package cascade_splits

import (
	"crypto/ed25519"
)

var initializeProtocolInstructionDiscriminator = []byte{
	0xbc, 0xe9, 0xfc, 0x6a, 0x86, 0x92, 0xca, 0x5b,
}

const initializeProtocolInstructionArgsSize = 32 // fee_wallet

type InitializeProtocolInstructionArgs struct {
	FeeWallet ed25519.PublicKey
}

type InitializeProtocolInstructionAccounts struct {
	ProtocolConfig ed25519.PublicKey
	Authority      ed25519.PublicKey

	// ProgramData is the program's executable data account; the program
	// checks the caller is the upgrade authority.
	ProgramData ed25519.PublicKey
}

func NewInitializeProtocolInstruction(
	accounts *InitializeProtocolInstructionAccounts,
	args *InitializeProtocolInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, 8+initializeProtocolInstructionArgsSize)

	putDiscriminator(data, initializeProtocolInstructionDiscriminator, &offset)
	putKey(data, args.FeeWallet, &offset)

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
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.ProgramData,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

package cascade_splits

import (
	"crypto/ed25519"
)

var executeSplitInstructionDiscriminator = []byte{
	0x06, 0x2d, 0xab, 0x28, 0x31, 0x81, 0x17, 0x59,
}

type ExecuteSplitInstructionAccounts struct {
	SplitConfig    ed25519.PublicKey
	Vault          ed25519.PublicKey
	Mint           ed25519.PublicKey
	ProtocolConfig ed25519.PublicKey

	// Executor is recorded for event attribution only. Execution is
	// permissionless, so it does not sign.
	Executor ed25519.PublicKey

	TokenProgram ed25519.PublicKey

	// ReceivingAccounts are the recipients' receiving accounts in recipient
	// order, passed as writable remaining accounts.
	ReceivingAccounts []ed25519.PublicKey

	// ProtocolFeeAccount is the fee wallet's receiving account, passed as
	// the final writable remaining account.
	ProtocolFeeAccount ed25519.PublicKey
}

func NewExecuteSplitInstruction(
	accounts *ExecuteSplitInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, 8)
	putDiscriminator(data, executeSplitInstructionDiscriminator, &offset)

	accountMetas := []AccountMeta{
		{
			PublicKey:  accounts.SplitConfig,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Vault,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Mint,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.ProtocolConfig,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Executor,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.TokenProgram,
			IsWritable: false,
			IsSigner:   false,
		},
	}
	for _, receivingAccount := range accounts.ReceivingAccounts {
		accountMetas = append(accountMetas, AccountMeta{
			PublicKey:  receivingAccount,
			IsWritable: true,
			IsSigner:   false,
		})
	}
	accountMetas = append(accountMetas, AccountMeta{
		PublicKey:  accounts.ProtocolFeeAccount,
		IsWritable: true,
		IsSigner:   false,
	})

	return Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: accountMetas,
	}
}

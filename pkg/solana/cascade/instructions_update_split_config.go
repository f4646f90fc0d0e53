package cascade_splits

import (
	"bytes"
	"crypto/ed25519"
)

var updateSplitConfigInstructionDiscriminator = []byte{
	0x2f, 0x67, 0x4a, 0xaa, 0x37, 0xfb, 0x82, 0x92,
}

const updateSplitConfigInstructionMinSize = (8 + // discriminator
	4) // recipients vec length

type UpdateSplitConfigInstructionArgs struct {
	Recipients []Recipient
}

type UpdateSplitConfigInstructionAccounts struct {
	SplitConfig ed25519.PublicKey
	Vault       ed25519.PublicKey
	Mint        ed25519.PublicKey
	Authority   ed25519.PublicKey

	TokenProgram ed25519.PublicKey

	// ReceivingAccounts are the new recipients' receiving accounts, passed
	// as readonly remaining accounts in recipient order.
	ReceivingAccounts []ed25519.PublicKey
}

func NewUpdateSplitConfigInstruction(
	accounts *UpdateSplitConfigInstructionAccounts,
	args *UpdateSplitConfigInstructionArgs,
) Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		updateSplitConfigInstructionMinSize+
			len(args.Recipients)*recipientSize)

	putDiscriminator(data, updateSplitConfigInstructionDiscriminator, &offset)
	putUint32(data, uint32(len(args.Recipients)), &offset)
	for _, recipient := range args.Recipients {
		putRecipient(data, recipient, &offset)
	}

	accountMetas := []AccountMeta{
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
			PublicKey:  accounts.Mint,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Authority,
			IsWritable: false,
			IsSigner:   true,
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
			IsWritable: false,
			IsSigner:   false,
		})
	}

	return Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: accountMetas,
	}
}

func UpdateSplitConfigInstructionFromBinary(data []byte) (*UpdateSplitConfigInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < updateSplitConfigInstructionMinSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)

	if !bytes.Equal(discriminator, updateSplitConfigInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args UpdateSplitConfigInstructionArgs

	var recipientCount uint32
	getUint32(data, &recipientCount, &offset)
	if recipientCount > MaxRecipients {
		return nil, ErrInvalidInstructionData
	}
	if len(data) < updateSplitConfigInstructionMinSize+int(recipientCount)*recipientSize {
		return nil, ErrInvalidInstructionData
	}

	args.Recipients = make([]Recipient, recipientCount)
	for i := range args.Recipients {
		getRecipient(data, &args.Recipients[i], &offset)
	}

	return &args, nil
}

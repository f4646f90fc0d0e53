package cascade_splits

import (
	"bytes"
	"crypto/ed25519"
)

var createSplitConfigInstructionDiscriminator = []byte{
	0x80, 0x2a, 0x3c, 0x6a, 0x04, 0xe9, 0x12, 0xbe,
}

const createSplitConfigInstructionMinSize = (8 + // discriminator
	32 + // mint
	4) // recipients vec length

type CreateSplitConfigInstructionArgs struct {
	Mint       ed25519.PublicKey
	Recipients []Recipient
}

type CreateSplitConfigInstructionAccounts struct {
	SplitConfig ed25519.PublicKey
	UniqueID    ed25519.PublicKey
	Authority   ed25519.PublicKey
	Payer       ed25519.PublicKey
	Mint        ed25519.PublicKey
	Vault       ed25519.PublicKey

	TokenProgram ed25519.PublicKey

	// ReceivingAccounts are the recipients' receiving accounts, passed as
	// readonly remaining accounts in recipient order so the program can
	// verify they exist.
	ReceivingAccounts []ed25519.PublicKey
}

func NewCreateSplitConfigInstruction(
	accounts *CreateSplitConfigInstructionAccounts,
	args *CreateSplitConfigInstructionArgs,
) Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		createSplitConfigInstructionMinSize+
			len(args.Recipients)*recipientSize)

	putDiscriminator(data, createSplitConfigInstructionDiscriminator, &offset)
	putKey(data, args.Mint, &offset)
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
			PublicKey:  accounts.UniqueID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Authority,
			IsWritable: false,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Payer,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Mint,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Vault,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.TokenProgram,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SPL_ASSOCIATED_TOKEN_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSTEM_PROGRAM_ID,
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

func CreateSplitConfigInstructionFromBinary(data []byte) (*CreateSplitConfigInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < createSplitConfigInstructionMinSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)

	if !bytes.Equal(discriminator, createSplitConfigInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args CreateSplitConfigInstructionArgs

	getKey(data, &args.Mint, &offset)

	var recipientCount uint32
	getUint32(data, &recipientCount, &offset)
	if recipientCount > MaxRecipients {
		return nil, ErrInvalidInstructionData
	}
	if len(data) < createSplitConfigInstructionMinSize+int(recipientCount)*recipientSize {
		return nil, ErrInvalidInstructionData
	}

	args.Recipients = make([]Recipient, recipientCount)
	for i := range args.Recipients {
		getRecipient(data, &args.Recipients[i], &offset)
	}

	return &args, nil
}

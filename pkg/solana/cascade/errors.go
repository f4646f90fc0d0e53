package cascade_splits

// CascadeSplitsError is a program-defined error code, as surfaced in a
// transaction's custom instruction error.
type CascadeSplitsError uint32

const (
	// Recipient count must be between 1 and 20
	ErrInvalidRecipientCount CascadeSplitsError = iota + 0x1770

	// Recipient percentages must sum to 9900 bps (99%)
	ErrInvalidSplitTotal

	// Duplicate recipient address
	ErrDuplicateRecipient

	// Recipient address cannot be zero
	ErrZeroAddress

	// Recipient percentage cannot be zero
	ErrZeroPercentage

	// Recipient ATA does not exist
	ErrRecipientATADoesNotExist

	// Recipient ATA is invalid
	ErrRecipientATAInvalid

	// Recipient ATA has wrong owner
	ErrRecipientATAWrongOwner

	// Recipient ATA has wrong mint
	ErrRecipientATAWrongMint

	// Vault must be empty for this operation
	ErrVaultNotEmpty

	// Invalid vault account
	ErrInvalidVault

	// Not enough accounts provided in remaining_accounts
	ErrInsufficientRemainingAccounts

	// Math overflow
	ErrMathOverflow

	// Math underflow
	ErrMathUnderflow

	// Invalid protocol fee recipient
	ErrInvalidProtocolFeeRecipient

	// Unauthorized
	ErrUnauthorized

	// Protocol already initialized
	ErrAlreadyInitialized

	// Unclaimed amounts must be zero to close
	ErrUnclaimedNotEmpty

	// Invalid token program
	ErrInvalidTokenProgram

	// No pending authority transfer
	ErrNoPendingTransfer
)

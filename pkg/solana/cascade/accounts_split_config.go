package cascade_splits

import (
	"bytes"
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58/base58"
)

// SplitConfigAccount is the on-chain state of a split: its identity, its
// recipient table, and the unclaimed carry-over ledger.
//
// The account is a zero-copy repr(C) struct, so the fixed-capacity arrays
// are stored in full (unused slots zero-filled) and explicit alignment
// padding is part of the layout.
type SplitConfigAccount struct {
	Version   uint8
	Authority ed25519.PublicKey
	Mint      ed25519.PublicKey
	Vault     ed25519.PublicKey
	UniqueID  UniqueID
	Bump      uint8

	RecipientCount uint8
	Recipients     [MaxRecipients]Recipient

	Unclaimed         [MaxRecipients]UnclaimedEntry
	ProtocolUnclaimed uint64

	LastActivity int64
	RentPayer    ed25519.PublicKey
}

const SplitConfigAccountSize = (8 + // discriminator
	1 + // version
	32 + // authority
	32 + // mint
	32 + // vault
	32 + // unique_id
	1 + // bump
	1 + // recipient_count
	1 + // padding to u16 alignment
	MaxRecipients*recipientSize + // recipients
	4 + // padding to u64 alignment
	MaxRecipients*unclaimedEntrySize + // unclaimed
	8 + // protocol_unclaimed
	8 + // last_activity
	32) // rent_payer

const (
	recipientCountPaddingSize = 1
	unclaimedPaddingSize      = 4
)

var splitConfigAccountDiscriminator = []byte{0x31, 0xc9, 0x32, 0xe4, 0x16, 0x8e, 0x0c, 0xde}

// DecodeStatus is the result of decoding an account buffer. Callers branch
// on it rather than inspecting error strings.
type DecodeStatus uint8

const (
	DecodeOK DecodeStatus = iota
	DecodeWrongSize
	DecodeWrongDiscriminator
)

// LiveRecipients returns the populated prefix of the recipient table.
func (obj *SplitConfigAccount) LiveRecipients() []Recipient {
	count := int(obj.RecipientCount)
	if count > MaxRecipients {
		count = MaxRecipients
	}
	return obj.Recipients[:count]
}

// LiveUnclaimed returns the nonzero unclaimed entries. Zero-valued slots are
// storage artifacts, not pending payouts.
func (obj *SplitConfigAccount) LiveUnclaimed() []UnclaimedEntry {
	var live []UnclaimedEntry
	for _, entry := range obj.Unclaimed {
		if !entry.IsZero() {
			live = append(live, entry)
		}
	}
	return live
}

// TotalUnclaimed is the sum of all recipient carry-over plus the protocol's.
func (obj *SplitConfigAccount) TotalUnclaimed() uint64 {
	total := obj.ProtocolUnclaimed
	for _, entry := range obj.Unclaimed {
		total += entry.Amount
	}
	return total
}

func (obj *SplitConfigAccount) String() string {
	var authority, mint, vault, rentPayer string

	if obj.Authority != nil {
		authority = base58.Encode(obj.Authority)
	}
	if obj.Mint != nil {
		mint = base58.Encode(obj.Mint)
	}
	if obj.Vault != nil {
		vault = base58.Encode(obj.Vault)
	}
	if obj.RentPayer != nil {
		rentPayer = base58.Encode(obj.RentPayer)
	}

	recipientsStr := "["
	for _, recipient := range obj.LiveRecipients() {
		recipientsStr += recipient.String() + ", "
	}
	recipientsStr += "]"

	return "SplitConfigAccount {" +
		"  version='" + strconv.Itoa(int(obj.Version)) + "'" +
		", authority='" + authority + "'" +
		", mint='" + mint + "'" +
		", vault='" + vault + "'" +
		", unique_id='" + base58.Encode(obj.UniqueID[:]) + "'" +
		", bump='" + strconv.Itoa(int(obj.Bump)) + "'" +
		", recipient_count='" + strconv.Itoa(int(obj.RecipientCount)) + "'" +
		", recipients=" + recipientsStr + "" +
		", protocol_unclaimed='" + strconv.FormatUint(obj.ProtocolUnclaimed, 10) + "'" +
		", last_activity='" + strconv.FormatInt(obj.LastActivity, 10) + "'" +
		", rent_payer='" + rentPayer + "'" +
		"}"
}

// Serializes the SplitConfigAccount into the exact on-chain layout.
func (obj *SplitConfigAccount) Marshal() []byte {
	data := make([]byte, SplitConfigAccountSize)

	var offset int

	putDiscriminator(data, splitConfigAccountDiscriminator, &offset)
	putUint8(data, obj.Version, &offset)

	putKey(data, obj.Authority, &offset)
	putKey(data, obj.Mint, &offset)
	putKey(data, obj.Vault, &offset)
	putKey(data, obj.UniqueID[:], &offset)
	putUint8(data, obj.Bump, &offset)

	putUint8(data, obj.RecipientCount, &offset)
	putPadding(recipientCountPaddingSize, &offset)
	for _, recipient := range obj.Recipients {
		putRecipient(data, recipient, &offset)
	}

	putPadding(unclaimedPaddingSize, &offset)
	for _, entry := range obj.Unclaimed {
		putUnclaimedEntry(data, entry, &offset)
	}
	putUint64(data, obj.ProtocolUnclaimed, &offset)

	putInt64(data, obj.LastActivity, &offset)
	putKey(data, obj.RentPayer, &offset)

	return data
}

// Unmarshal deserializes the account from the provided buffer. The buffer
// length must match the account size exactly and the discriminator must
// match; anything else is reported through the DecodeStatus, never as a
// partial decode.
func (obj *SplitConfigAccount) Unmarshal(data []byte) DecodeStatus {
	if len(data) != SplitConfigAccountSize {
		return DecodeWrongSize
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, splitConfigAccountDiscriminator) {
		return DecodeWrongDiscriminator
	}

	getUint8(data, &obj.Version, &offset)

	getKey(data, &obj.Authority, &offset)
	getKey(data, &obj.Mint, &offset)
	getKey(data, &obj.Vault, &offset)

	var uniqueID ed25519.PublicKey
	getKey(data, &uniqueID, &offset)
	copy(obj.UniqueID[:], uniqueID)

	getUint8(data, &obj.Bump, &offset)

	getUint8(data, &obj.RecipientCount, &offset)
	getPadding(recipientCountPaddingSize, &offset)
	for i := 0; i < MaxRecipients; i++ {
		getRecipient(data, &obj.Recipients[i], &offset)
	}

	getPadding(unclaimedPaddingSize, &offset)
	for i := 0; i < MaxRecipients; i++ {
		getUnclaimedEntry(data, &obj.Unclaimed[i], &offset)
	}
	getUint64(data, &obj.ProtocolUnclaimed, &offset)

	getInt64(data, &obj.LastActivity, &offset)
	getKey(data, &obj.RentPayer, &offset)

	return DecodeOK
}

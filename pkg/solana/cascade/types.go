package cascade_splits

import (
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58/base58"
)

const (
	// MaxRecipients is the fixed capacity of the recipient and unclaimed
	// arrays in a split config account.
	MaxRecipients = 20
)

// Recipient is a single payout entry: an address and its basis-point share
// of the recipient pool.
type Recipient struct {
	Address ed25519.PublicKey
	Bps     uint16
}

const recipientSize = 32 + // address
	2 // bps

func putRecipient(dst []byte, src Recipient, offset *int) {
	putKey(dst, src.Address, offset)
	putUint16(dst, src.Bps, offset)
}

func getRecipient(src []byte, dst *Recipient, offset *int) {
	getKey(src, &dst.Address, offset)
	getUint16(src, &dst.Bps, offset)
}

// UnclaimedEntry is a per-recipient carry-over recorded when a distribution
// transfer could not complete.
type UnclaimedEntry struct {
	Recipient ed25519.PublicKey
	Amount    uint64
	Timestamp int64
}

const unclaimedEntrySize = 32 + // recipient
	8 + // amount
	8 // timestamp

func putUnclaimedEntry(dst []byte, src UnclaimedEntry, offset *int) {
	putKey(dst, src.Recipient, offset)
	putUint64(dst, src.Amount, offset)
	putInt64(dst, src.Timestamp, offset)
}

func getUnclaimedEntry(src []byte, dst *UnclaimedEntry, offset *int) {
	getKey(src, &dst.Recipient, offset)
	getUint64(src, &dst.Amount, offset)
	getInt64(src, &dst.Timestamp, offset)
}

func (e UnclaimedEntry) IsZero() bool {
	return e.Amount == 0
}

func (r Recipient) String() string {
	var address string
	if r.Address != nil {
		address = base58.Encode(r.Address)
	}

	return "Recipient {" +
		" address='" + address + "'" +
		", bps='" + strconv.Itoa(int(r.Bps)) + "'" +
		"}"
}

package cascade_splits

import (
	"bytes"
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58/base58"
)

// ProtocolConfigAccount is the singleton protocol state: the admin
// authority, an optional pending authority for the two-step transfer, and
// the wallet that collects protocol fees.
type ProtocolConfigAccount struct {
	Authority        ed25519.PublicKey
	PendingAuthority ed25519.PublicKey
	FeeWallet        ed25519.PublicKey
	Bump             uint8
}

const ProtocolConfigAccountSize = (8 + // discriminator
	32 + // authority
	32 + // pending_authority
	32 + // fee_wallet
	1) // bump

var protocolConfigAccountDiscriminator = []byte{0xcf, 0x5b, 0xfa, 0x1c, 0x98, 0xb3, 0xd7, 0xd1}

// HasPendingAuthority reports whether an authority transfer is in flight.
// The program stores the zero key when there is none.
func (obj *ProtocolConfigAccount) HasPendingAuthority() bool {
	for _, b := range obj.PendingAuthority {
		if b != 0 {
			return true
		}
	}
	return false
}

func (obj *ProtocolConfigAccount) String() string {
	var authority, pendingAuthority, feeWallet string

	if obj.Authority != nil {
		authority = base58.Encode(obj.Authority)
	}
	if obj.PendingAuthority != nil {
		pendingAuthority = base58.Encode(obj.PendingAuthority)
	}
	if obj.FeeWallet != nil {
		feeWallet = base58.Encode(obj.FeeWallet)
	}

	return "ProtocolConfigAccount {" +
		"  authority='" + authority + "'" +
		", pending_authority='" + pendingAuthority + "'" +
		", fee_wallet='" + feeWallet + "'" +
		", bump='" + strconv.Itoa(int(obj.Bump)) + "'" +
		"}"
}

// Serializes the ProtocolConfigAccount into the exact on-chain layout.
func (obj *ProtocolConfigAccount) Marshal() []byte {
	data := make([]byte, ProtocolConfigAccountSize)

	var offset int

	putDiscriminator(data, protocolConfigAccountDiscriminator, &offset)
	putKey(data, obj.Authority, &offset)
	putKey(data, obj.PendingAuthority, &offset)
	putKey(data, obj.FeeWallet, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

// Unmarshal deserializes the account from the provided buffer, with the
// same exact-size and discriminator contract as SplitConfigAccount.
func (obj *ProtocolConfigAccount) Unmarshal(data []byte) DecodeStatus {
	if len(data) != ProtocolConfigAccountSize {
		return DecodeWrongSize
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, protocolConfigAccountDiscriminator) {
		return DecodeWrongDiscriminator
	}

	getKey(data, &obj.Authority, &offset)
	getKey(data, &obj.PendingAuthority, &offset)
	getKey(data, &obj.FeeWallet, &offset)
	getUint8(data, &obj.Bump, &offset)

	return DecodeOK
}

// Package distribution converts percentage shares into the protocol's
// basis-point units and computes exact per-recipient token amounts with
// deterministic remainder handling.
package distribution

import (
	"crypto/ed25519"
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// TotalBps is the full balance in basis points.
	TotalBps = 10000

	// RecipientPoolBps is the portion of every distribution that goes to
	// recipients. The remaining 100 bps is the fixed protocol fee.
	RecipientPoolBps = 9900

	// ProtocolFeeBps is the fixed protocol fee.
	ProtocolFeeBps = TotalBps - RecipientPoolBps

	// bpsPerShare maps one percentage share onto the recipient pool, so
	// 100 shares covers exactly 9900 bps.
	bpsPerShare = RecipientPoolBps / 100
)

var (
	ErrEmptyRecipients  = errors.New("recipient list is empty")
	ErrSharesNotHundred = errors.New("shares must sum to exactly 100")
	ErrInvalidShare     = errors.New("share must be an integer between 1 and 100")
	ErrInvalidBps       = errors.New("basis points must be nonzero and sum to 9900")
)

// Recipient is a payout target expressed as a human-facing percentage share.
type Recipient struct {
	Address ed25519.PublicKey
	Share   uint8
}

// BpsRecipient is a payout target expressed in on-chain basis points.
type BpsRecipient struct {
	Address ed25519.PublicKey
	Bps     uint16
}

// Allocation is a computed payout amount for one recipient.
type Allocation struct {
	Address ed25519.PublicKey
	Amount  uint64
}

// ShareToBasisPoints maps a percentage share onto the recipient pool:
// share x 99 bps. A share of 100 covers the full pool and is only valid for
// a single-recipient list, which Calculate checks at the list level.
func ShareToBasisPoints(share uint8) (uint16, error) {
	if share < 1 || share > 100 {
		return 0, ErrInvalidShare
	}
	return uint16(share) * bpsPerShare, nil
}

// BasisPointsToShare is the inverse of ShareToBasisPoints, rounding to the
// nearest integer share with ties rounding up.
func BasisPointsToShare(bps uint16) uint8 {
	return uint8((uint32(bps)*2 + bpsPerShare) / (2 * bpsPerShare))
}

// Calculate computes the exact payout of a balance across recipients whose
// shares sum to 100. Every non-final recipient receives the floor of its
// proportional amount; the final recipient receives the remainder of the
// recipient pool so no unit is lost to rounding. The protocol fee is
// everything outside the pool.
func Calculate(balance uint64, recipients []Recipient) ([]Allocation, uint64, error) {
	if len(recipients) == 0 {
		return nil, 0, ErrEmptyRecipients
	}

	var totalShares uint32
	for _, r := range recipients {
		if r.Share < 1 || r.Share > 100 {
			return nil, 0, ErrInvalidShare
		}
		totalShares += uint32(r.Share)
	}
	if totalShares != 100 {
		return nil, 0, ErrSharesNotHundred
	}

	bpsRecipients := make([]BpsRecipient, len(recipients))
	for i, r := range recipients {
		bps, err := ShareToBasisPoints(r.Share)
		if err != nil {
			return nil, 0, err
		}
		bpsRecipients[i] = BpsRecipient{Address: r.Address, Bps: bps}
	}

	return CalculateFromBasisPoints(balance, bpsRecipients)
}

// CalculateFromBasisPoints is Calculate for recipients already expressed in
// on-chain basis points summing to 9900, as read back from a split config.
func CalculateFromBasisPoints(balance uint64, recipients []BpsRecipient) ([]Allocation, uint64, error) {
	if len(recipients) == 0 {
		return nil, 0, ErrEmptyRecipients
	}

	var totalBps uint32
	for _, r := range recipients {
		if r.Bps == 0 {
			return nil, 0, ErrInvalidBps
		}
		totalBps += uint32(r.Bps)
	}
	if totalBps != RecipientPoolBps {
		return nil, 0, ErrInvalidBps
	}

	pool := mulDivFloor(balance, RecipientPoolBps)
	fee := balance - pool

	allocations := make([]Allocation, len(recipients))
	var distributed uint64
	for i, r := range recipients {
		var amount uint64
		if i == len(recipients)-1 {
			// The final recipient absorbs the pool's rounding remainder.
			amount = pool - distributed
		} else {
			amount = mulDivFloor(balance, uint64(r.Bps))
		}
		distributed += amount
		allocations[i] = Allocation{Address: r.Address, Amount: amount}
	}

	return allocations, fee, nil
}

// mulDivFloor computes floor(balance * bps / 10000) with a 128-bit
// intermediate so large balances cannot overflow.
func mulDivFloor(balance, bps uint64) uint64 {
	hi, lo := bits.Mul64(balance, bps)
	quo, _ := bits.Div64(hi, lo, TotalBps)
	return quo
}

package cascade_splits

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
)

// UniqueID is the 32-byte identifier that distinguishes split configs
// sharing an (authority, mint) pair. An id is either random or encodes a
// short human label behind a recognizable magic prefix.
type UniqueID [32]byte

var labelMagic = []byte("csl:")

const (
	labelMagicSize  = 4
	labelLengthSize = 1

	// MaxLabelLength is the longest label that fits in a unique id after
	// the magic prefix and length byte.
	MaxLabelLength = 32 - labelMagicSize - labelLengthSize
)

var (
	ErrLabelTooLong  = errors.New("label exceeds maximum length")
	ErrInvalidLabel  = errors.New("label contains a NUL byte")
	ErrInvalidLength = errors.New("invalid unique id length")
)

// NewRandomUniqueID returns a unique id with no label encoding.
func NewRandomUniqueID() (UniqueID, error) {
	var id UniqueID
	if _, err := rand.Read(id[:]); err != nil {
		return id, err
	}
	return id, nil
}

// NewUniqueIDFromBytes copies a raw 32-byte identifier.
func NewUniqueIDFromBytes(b []byte) (UniqueID, error) {
	var id UniqueID
	if len(b) != len(id) {
		return id, ErrInvalidLength
	}
	copy(id[:], b)
	return id, nil
}

// LabelToUniqueID encodes a human label into a unique id. The label is
// capped at MaxLabelLength bytes and may not contain NUL, which is reserved
// for padding.
func LabelToUniqueID(label string) (UniqueID, error) {
	var id UniqueID

	if len(label) > MaxLabelLength {
		return id, ErrLabelTooLong
	}
	if strings.ContainsRune(label, 0) {
		return id, ErrInvalidLabel
	}

	copy(id[:], labelMagic)
	id[labelMagicSize] = byte(len(label))
	copy(id[labelMagicSize+labelLengthSize:], label)

	return id, nil
}

// UniqueIDToLabel is the inverse of LabelToUniqueID. It reports false for
// ids that do not carry a well-formed label encoding, which is the expected
// result for random ids.
func UniqueIDToLabel(id UniqueID) (string, bool) {
	if !bytes.Equal(id[:labelMagicSize], labelMagic) {
		return "", false
	}

	length := int(id[labelMagicSize])
	if length > MaxLabelLength {
		return "", false
	}

	// NUL is reserved for padding, so a declared label containing one (or
	// nonzero bytes past the declared length) is not something the encoder
	// could have produced.
	start := labelMagicSize + labelLengthSize
	for i, b := range id[start:] {
		if i < length && b == 0 {
			return "", false
		}
		if i >= length && b != 0 {
			return "", false
		}
	}

	return string(id[start : start+length]), true
}

// IsLabeled reports whether the id carries a label encoding.
func (id UniqueID) IsLabeled() bool {
	_, ok := UniqueIDToLabel(id)
	return ok
}

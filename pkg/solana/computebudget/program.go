package computebudget

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"

	"github.com/cascade-protocol/splits-go/pkg/solana"
)

// ProgramKey is the address of the compute budget program.
//
// Current key: ComputeBudget111111111111111111111111111111
var ProgramKey ed25519.PublicKey

func init() {
	var err error

	ProgramKey, err = base58.Decode("ComputeBudget111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}

const (
	// nolint:varcheck,deadcode,unused
	commandRequestHeapFrame uint8 = iota + 1
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
)

func SetComputeUnitLimit(limit uint32) solana.Instruction {
	data := make([]byte, 5)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], limit)

	return solana.NewInstruction(
		ProgramKey,
		data,
	)
}

func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], microLamports)

	return solana.NewInstruction(
		ProgramKey,
		data,
	)
}

type DecompiledSetComputeUnitLimit struct {
	Limit uint32
}

func DecompileSetComputeUnitLimit(m solana.Message, index int) (*DecompiledSetComputeUnitLimit, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !ProgramKey.Equal(ed25519.PublicKey(m.Accounts[i.ProgramIndex])) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) != 5 {
		return nil, errors.Errorf("invalid data size: %d", len(i.Data))
	}
	if i.Data[0] != commandSetComputeUnitLimit {
		return nil, solana.ErrIncorrectInstruction
	}

	return &DecompiledSetComputeUnitLimit{
		Limit: binary.LittleEndian.Uint32(i.Data[1:]),
	}, nil
}

type DecompiledSetComputeUnitPrice struct {
	MicroLamports uint64
}

func DecompileSetComputeUnitPrice(m solana.Message, index int) (*DecompiledSetComputeUnitPrice, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !ProgramKey.Equal(ed25519.PublicKey(m.Accounts[i.ProgramIndex])) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) != 9 {
		return nil, errors.Errorf("invalid data size: %d", len(i.Data))
	}
	if i.Data[0] != commandSetComputeUnitPrice {
		return nil, solana.ErrIncorrectInstruction
	}

	return &DecompiledSetComputeUnitPrice{
		MicroLamports: binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

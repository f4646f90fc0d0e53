package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-protocol/splits-go/pkg/solana/system"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func TestGetAssociatedAccount(t *testing.T) {
	wallet := generateKey(t)
	mint := generateKey(t)

	addr, err := GetAssociatedAccount(wallet, mint, ProgramKey)
	require.NoError(t, err)

	// Deterministic
	again, err := GetAssociatedAccount(wallet, mint, ProgramKey)
	require.NoError(t, err)
	assert.EqualValues(t, addr, again)

	// The token program is part of the derivation, so the Token-2022
	// account lives at a different address.
	addr2022, err := GetAssociatedAccount(wallet, mint, Token2022ProgramKey)
	require.NoError(t, err)
	assert.NotEqual(t, addr, addr2022)

	otherWallet, err := GetAssociatedAccount(generateKey(t), mint, ProgramKey)
	require.NoError(t, err)
	assert.NotEqual(t, addr, otherWallet)
}

func TestCreateAssociatedTokenAccount(t *testing.T) {
	payer := generateKey(t)
	wallet := generateKey(t)
	mint := generateKey(t)

	instruction, addr, err := CreateAssociatedTokenAccount(payer, wallet, mint, ProgramKey)
	require.NoError(t, err)

	expectedAddr, err := GetAssociatedAccount(wallet, mint, ProgramKey)
	require.NoError(t, err)
	assert.EqualValues(t, expectedAddr, addr)

	assert.EqualValues(t, AssociatedTokenAccountProgramKey, instruction.Program)
	assert.Empty(t, instruction.Data)

	require.Len(t, instruction.Accounts, 7)
	assert.EqualValues(t, payer, instruction.Accounts[0].PublicKey)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.EqualValues(t, addr, instruction.Accounts[1].PublicKey)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.EqualValues(t, wallet, instruction.Accounts[2].PublicKey)
	assert.EqualValues(t, mint, instruction.Accounts[3].PublicKey)
	assert.EqualValues(t, system.ProgramKey[:], instruction.Accounts[4].PublicKey)
	assert.EqualValues(t, ProgramKey, instruction.Accounts[5].PublicKey)
	assert.EqualValues(t, system.RentSysVar, instruction.Accounts[6].PublicKey)
}

func TestCreateAssociatedTokenAccountIdempotent(t *testing.T) {
	payer := generateKey(t)
	wallet := generateKey(t)
	mint := generateKey(t)

	instruction, addr, err := CreateAssociatedTokenAccountIdempotent(payer, wallet, mint, Token2022ProgramKey)
	require.NoError(t, err)

	expectedAddr, err := GetAssociatedAccount(wallet, mint, Token2022ProgramKey)
	require.NoError(t, err)
	assert.EqualValues(t, expectedAddr, addr)

	assert.Equal(t, []byte{1}, instruction.Data)

	// The idempotent variant predates the rent sysvar requirement.
	require.Len(t, instruction.Accounts, 6)
	assert.EqualValues(t, Token2022ProgramKey, instruction.Accounts[5].PublicKey)
}

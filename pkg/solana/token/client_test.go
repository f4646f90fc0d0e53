package token

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-protocol/splits-go/pkg/solana"
)

type stubSolanaClient struct {
	solana.Client

	accounts map[string]solana.AccountInfo
}

func (c *stubSolanaClient) GetAccountInfo(_ context.Context, account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	info, ok := c.accounts[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func TestClient_GetAccount(t *testing.T) {
	mint := generateKey(t)
	owner := generateKey(t)
	address := generateKey(t)

	tokenAccount := Account{
		Mint:   mint,
		Owner:  owner,
		Amount: 500,
		State:  AccountStateInitialized,
	}

	stub := &stubSolanaClient{accounts: map[string]solana.AccountInfo{
		base58.Encode(address): {
			Data:  tokenAccount.Marshal(),
			Owner: ProgramKey,
		},
	}}

	client := NewClient(stub, mint)
	assert.EqualValues(t, mint, client.Mint())

	account, err := client.GetAccount(context.Background(), address, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, owner, account.Owner)
	assert.EqualValues(t, 500, account.Amount)

	_, err = client.GetAccount(context.Background(), generateKey(t), solana.CommitmentConfirmed)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestClient_GetAccount_Invalid(t *testing.T) {
	mint := generateKey(t)
	address := generateKey(t)

	tokenAccount := Account{
		Mint:  generateKey(t), // different mint
		Owner: generateKey(t),
		State: AccountStateInitialized,
	}

	stub := &stubSolanaClient{accounts: map[string]solana.AccountInfo{
		base58.Encode(address): {
			Data:  tokenAccount.Marshal(),
			Owner: ProgramKey,
		},
	}}

	client := NewClient(stub, mint)
	_, err := client.GetAccount(context.Background(), address, solana.CommitmentConfirmed)
	assert.Equal(t, ErrInvalidTokenAccount, err)

	// An account owned by neither token program is rejected before decode.
	stub.accounts[base58.Encode(address)] = solana.AccountInfo{
		Data:  tokenAccount.Marshal(),
		Owner: generateKey(t),
	}
	_, err = client.GetAccount(context.Background(), address, solana.CommitmentConfirmed)
	assert.Equal(t, ErrInvalidTokenAccount, err)
}

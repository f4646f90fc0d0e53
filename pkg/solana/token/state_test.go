package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_RoundTrip(t *testing.T) {
	isNative := uint64(2039280)
	account := Account{
		Mint:            generateKey(t),
		Owner:           generateKey(t),
		Amount:          123456789,
		Delegate:        generateKey(t),
		State:           AccountStateInitialized,
		IsNative:        &isNative,
		DelegatedAmount: 42,
		CloseAuthority:  generateKey(t),
	}

	data := account.Marshal()
	require.Len(t, data, AccountSize)

	var decoded Account
	require.True(t, decoded.Unmarshal(data))
	assert.Equal(t, account, decoded)
}

func TestAccount_OptionalFieldsAbsent(t *testing.T) {
	account := Account{
		Mint:   generateKey(t),
		Owner:  generateKey(t),
		Amount: 100,
		State:  AccountStateFrozen,
	}

	var decoded Account
	require.True(t, decoded.Unmarshal(account.Marshal()))

	assert.Nil(t, decoded.Delegate)
	assert.Nil(t, decoded.IsNative)
	assert.Nil(t, decoded.CloseAuthority)
	assert.Equal(t, AccountStateFrozen, decoded.State)
}

func TestAccount_TokenExtensionTail(t *testing.T) {
	account := Account{
		Mint:   generateKey(t),
		Owner:  generateKey(t),
		Amount: 7,
		State:  AccountStateInitialized,
	}

	// Token-2022 accounts append TLV extension data past the base layout.
	data := append(account.Marshal(), 2, 0, 0, 0)

	var decoded Account
	require.True(t, decoded.Unmarshal(data))
	assert.EqualValues(t, account.Mint, decoded.Mint)
	assert.EqualValues(t, 7, decoded.Amount)
}

func TestAccount_TooShort(t *testing.T) {
	var decoded Account
	assert.False(t, decoded.Unmarshal(make([]byte, AccountSize-1)))
}

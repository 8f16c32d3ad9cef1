package stream_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

func TestValidateAccountID(t *testing.T) {
	valid := []string{
		"aa",
		"m82.testnet",
		"alice.test",
		"app-1_v2.near",
		"0x1234567890abcdef",
		strings.Repeat("a", stream.MaxAccountIDLength),
	}
	for _, id := range valid {
		t.Run("valid "+id, func(t *testing.T) {
			assert.NoError(t, stream.ValidateAccountID(id))
		})
	}

	invalid := []string{
		"",
		"a",
		"Alice.near",
		"alice..near",
		".alice",
		"alice.",
		"alice-_near",
		"alice near",
		"alice@near",
		strings.Repeat("a", stream.MaxAccountIDLength+1),
	}
	for _, id := range invalid {
		t.Run("invalid "+id, func(t *testing.T) {
			err := stream.ValidateAccountID(id)
			require.Error(t, err)
			assert.ErrorIs(t, err, stream.ErrInvalidAccountID)
		})
	}
}

func TestParseAccountID(t *testing.T) {
	id, err := stream.ParseAccountID("alice.test")
	require.NoError(t, err)
	assert.Equal(t, stream.AccountID("alice.test"), id)

	_, err = stream.ParseAccountID("ALICE")
	assert.ErrorIs(t, err, stream.ErrInvalidAccountID)
}

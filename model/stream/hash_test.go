package stream_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

func TestCryptoHash(t *testing.T) {
	raw := bytes.Repeat([]byte{0x07}, stream.HashLength)

	h := stream.HashFromBytes(raw)
	decoded, err := h.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	t.Run("wrong length", func(t *testing.T) {
		_, err := stream.HashFromBytes([]byte{1, 2, 3}).Bytes()
		assert.Error(t, err)
	})

	t.Run("not base58", func(t *testing.T) {
		_, err := stream.CryptoHash("0OIl").Bytes()
		assert.Error(t, err)
	})
}

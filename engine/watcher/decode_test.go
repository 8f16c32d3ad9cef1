package watcher

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFunctionCallArgs(t *testing.T) {
	t.Run("json object", func(t *testing.T) {
		value, err := DecodeFunctionCallArgs("eyJhIjoxfQ==") // {"a":1}
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": float64(1)}, value)
	})

	t.Run("json scalar", func(t *testing.T) {
		value, err := DecodeFunctionCallArgs(base64.StdEncoding.EncodeToString([]byte(`"hello"`)))
		require.NoError(t, err)
		assert.Equal(t, "hello", value)
	})

	t.Run("unpadded", func(t *testing.T) {
		value, err := DecodeFunctionCallArgs("eyJhIjoxfQ") // {"a":1}
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": float64(1)}, value)

		value, err = DecodeFunctionCallArgs("e30") // {}
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{}, value)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := DecodeFunctionCallArgs("!")
		require.ErrorIs(t, err, ErrArgsNotBase64)
		assert.Equal(t, DecodeStageBase64, decodeStage(err))
	})

	t.Run("url alphabet is rejected", func(t *testing.T) {
		_, err := DecodeFunctionCallArgs("eyJhIjoxfQ_-")
		require.ErrorIs(t, err, ErrArgsNotBase64)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeFunctionCallArgs(base64.StdEncoding.EncodeToString([]byte("not json")))
		require.ErrorIs(t, err, ErrArgsNotJSON)
		assert.Equal(t, DecodeStageJSON, decodeStage(err))
	})

	t.Run("empty args", func(t *testing.T) {
		_, err := DecodeFunctionCallArgs("")
		require.ErrorIs(t, err, ErrArgsNotJSON)
	})
}

package stream

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// CryptoHash is the base58 text form of a 32-byte hash. It identifies
// blocks, transactions and receipts.
type CryptoHash string

// HashLength is the length in bytes of a decoded CryptoHash.
const HashLength = 32

// HashFromBytes returns the text form of the given raw hash.
func HashFromBytes(b []byte) CryptoHash {
	return CryptoHash(base58.Encode(b))
}

// Bytes decodes the hash back into its raw form.
func (h CryptoHash) Bytes() ([]byte, error) {
	b, err := base58.Decode(string(h))
	if err != nil {
		return nil, fmt.Errorf("could not decode hash %q: %w", string(h), err)
	}
	if len(b) != HashLength {
		return nil, fmt.Errorf("invalid hash length %d for %q (expected %d)", len(b), string(h), HashLength)
	}
	return b, nil
}

func (h CryptoHash) String() string {
	return string(h)
}

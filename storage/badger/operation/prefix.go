package operation

import (
	"encoding/binary"
	"fmt"
)

const (

	// codes for stream data
	codeStreamMessage = 10

	// codes for stream consumers
	codeConsumerProcessed = 50
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}

// heightFromKey extracts the height from a key built with makePrefix(code, height).
func heightFromKey(key []byte) (uint64, error) {
	if len(key) != 9 {
		return 0, fmt.Errorf("invalid height key length %d", len(key))
	}
	return binary.BigEndian.Uint64(key[1:]), nil
}

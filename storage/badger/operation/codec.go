package operation

import (
	"bytes"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
)

// encodeEntity encodes the given entity using msgpack and compresses the result with snappy.
// possible error to return is irrecoverable.exception
func encodeEntity(entity interface{}) ([]byte, error) {
	val, err := encodeEntityRaw(entity)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, val), nil
}

// decodeValue uncompresses the given value and decodes it into the given entity using msgpack.
// possible error to return is irrecoverable.exception
func decodeValue(val []byte, entity interface{}) error {
	uncompressedVal, err := snappy.Decode(nil, val)
	if err != nil {
		return irrecoverable.NewExceptionf("could not uncompress value: %w", err)
	}
	return decodeValRaw(uncompressedVal, entity)
}

// Field names follow the json tags so stored entities share the names of the
// stream wire format.
func encodeEntityRaw(entity interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := msgpack.NewEncoder(&buf).UseJSONTag(true).Encode(entity)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not encode entity: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeValRaw(val []byte, entity interface{}) error {
	err := msgpack.NewDecoder(bytes.NewReader(val)).UseJSONTag(true).Decode(entity)
	if err != nil {
		return irrecoverable.NewExceptionf("could not decode entity: %w", err)
	}
	return nil
}

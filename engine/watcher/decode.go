package watcher

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	DecodeStageBase64 = "base64"
	DecodeStageJSON   = "json"
)

var (
	ErrArgsNotBase64 = errors.New("function call args are not valid base64")
	ErrArgsNotJSON   = errors.New("function call args are not valid json")
)

// DecodeFunctionCallArgs decodes the base64 encoded arguments of a function call and
// parses them as a generic JSON value.
// Expected errors:
// - ErrArgsNotBase64 if the arguments are not valid base64, padded or not
// - ErrArgsNotJSON if the decoded arguments are not a JSON document
func DecodeFunctionCallArgs(args string) (interface{}, error) {
	raw, err := base64.StdEncoding.DecodeString(args)
	if err != nil {
		// producers may strip the padding
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(args)
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrArgsNotBase64, err)
		}
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgsNotJSON, err)
	}
	return value, nil
}

// decodeStage names the step at which decoding failed, for metrics.
func decodeStage(err error) string {
	if errors.Is(err, ErrArgsNotBase64) {
		return DecodeStageBase64
	}
	return DecodeStageJSON
}

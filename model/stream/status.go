package stream

import (
	"encoding/json"
	"fmt"
)

type ExecutionStatusKind string

const (
	StatusUnknown          ExecutionStatusKind = "Unknown"
	StatusFailure          ExecutionStatusKind = "Failure"
	StatusSuccessValue     ExecutionStatusKind = "SuccessValue"
	StatusSuccessReceiptID ExecutionStatusKind = "SuccessReceiptId"
)

// ExecutionStatus is a tagged union describing how a receipt or transaction executed.
// At most one field is set; the zero value is the Unknown status.
//
// In JSON, Unknown is encoded as a bare string and the remaining variants as
// single-key objects, e.g. {"SuccessValue": ""}.
type ExecutionStatus struct {
	Failure          *ExecutionError `json:"Failure,omitempty"`
	SuccessValue     *string         `json:"SuccessValue,omitempty"` // base64 encoded return value
	SuccessReceiptID *CryptoHash     `json:"SuccessReceiptId,omitempty"`
}

// ExecutionError holds the failure reason as produced by the node, e.g.
// {"ActionError": {"index": 0, "kind": {...}}}.
type ExecutionError map[string]interface{}

func StatusSuccess(value string) ExecutionStatus {
	return ExecutionStatus{SuccessValue: &value}
}

func StatusSuccessReceipt(receiptID CryptoHash) ExecutionStatus {
	return ExecutionStatus{SuccessReceiptID: &receiptID}
}

func StatusFailed(reason ExecutionError) ExecutionStatus {
	return ExecutionStatus{Failure: &reason}
}

func (s ExecutionStatus) Kind() ExecutionStatusKind {
	switch {
	case s.Failure != nil:
		return StatusFailure
	case s.SuccessValue != nil:
		return StatusSuccessValue
	case s.SuccessReceiptID != nil:
		return StatusSuccessReceiptID
	default:
		return StatusUnknown
	}
}

// IsSuccess returns true for both SuccessValue and SuccessReceiptId.
func (s ExecutionStatus) IsSuccess() bool {
	kind := s.Kind()
	return kind == StatusSuccessValue || kind == StatusSuccessReceiptID
}

func (s ExecutionStatus) String() string {
	return string(s.Kind())
}

type executionStatusFields ExecutionStatus

func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	if s.Kind() == StatusUnknown {
		return json.Marshal(string(StatusUnknown))
	}
	return json.Marshal(executionStatusFields(s))
}

func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if ExecutionStatusKind(name) != StatusUnknown {
			return fmt.Errorf("unknown execution status %q", name)
		}
		*s = ExecutionStatus{}
		return nil
	}

	var fields executionStatusFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("could not decode execution status: %w", err)
	}
	*s = ExecutionStatus(fields)
	return nil
}

package stream

import (
	"encoding/json"
	"fmt"
)

type ActionKind string

const (
	ActionKindCreateAccount  ActionKind = "CreateAccount"
	ActionKindDeployContract ActionKind = "DeployContract"
	ActionKindFunctionCall   ActionKind = "FunctionCall"
	ActionKindTransfer       ActionKind = "Transfer"
	ActionKindStake          ActionKind = "Stake"
	ActionKindAddKey         ActionKind = "AddKey"
	ActionKindDeleteKey      ActionKind = "DeleteKey"
	ActionKindDeleteAccount  ActionKind = "DeleteAccount"
	ActionKindUnknown        ActionKind = "Unknown"
)

// Action is a tagged union: exactly one of its fields is set.
//
// In JSON, variants carrying data are encoded as single-key objects
// ({"FunctionCall": {...}}) while CreateAccount is encoded as a bare string.
// Variants this package does not know about (e.g. Delegate) are kept verbatim in Other.
type Action struct {
	CreateAccount  *CreateAccountAction  `json:"CreateAccount,omitempty"`
	DeployContract *DeployContractAction `json:"DeployContract,omitempty"`
	FunctionCall   *FunctionCallAction   `json:"FunctionCall,omitempty"`
	Transfer       *TransferAction       `json:"Transfer,omitempty"`
	Stake          *StakeAction          `json:"Stake,omitempty"`
	AddKey         *AddKeyAction         `json:"AddKey,omitempty"`
	DeleteKey      *DeleteKeyAction      `json:"DeleteKey,omitempty"`
	DeleteAccount  *DeleteAccountAction  `json:"DeleteAccount,omitempty"`
	Other          json.RawMessage       `json:"-" msgpack:"Other,omitempty" cbor:"Other,omitempty"`
}

type CreateAccountAction struct{}

type DeployContractAction struct {
	Code string `json:"code"` // base64 or hash of the code, depending on the producer
}

type FunctionCallAction struct {
	MethodName string  `json:"method_name"`
	Args       string  `json:"args"` // base64 encoded call arguments
	Gas        uint64  `json:"gas"`
	Deposit    Balance `json:"deposit"`
}

type TransferAction struct {
	Deposit Balance `json:"deposit"`
}

type StakeAction struct {
	Stake     Balance `json:"stake"`
	PublicKey string  `json:"public_key"`
}

type AddKeyAction struct {
	PublicKey string          `json:"public_key"`
	AccessKey json.RawMessage `json:"access_key"`
}

type DeleteKeyAction struct {
	PublicKey string `json:"public_key"`
}

type DeleteAccountAction struct {
	BeneficiaryID AccountID `json:"beneficiary_id"`
}

// Kind returns the variant held by the action.
func (a Action) Kind() ActionKind {
	switch {
	case a.CreateAccount != nil:
		return ActionKindCreateAccount
	case a.DeployContract != nil:
		return ActionKindDeployContract
	case a.FunctionCall != nil:
		return ActionKindFunctionCall
	case a.Transfer != nil:
		return ActionKindTransfer
	case a.Stake != nil:
		return ActionKindStake
	case a.AddKey != nil:
		return ActionKindAddKey
	case a.DeleteKey != nil:
		return ActionKindDeleteKey
	case a.DeleteAccount != nil:
		return ActionKindDeleteAccount
	default:
		return ActionKindUnknown
	}
}

// AsFunctionCall returns the function call if the action is of the FunctionCall kind.
func (a Action) AsFunctionCall() (*FunctionCallAction, bool) {
	return a.FunctionCall, a.FunctionCall != nil
}

// actionFields avoids recursing into Action's own (Un)MarshalJSON.
type actionFields Action

func (a Action) MarshalJSON() ([]byte, error) {
	kind := a.Kind()
	if kind == ActionKindUnknown && len(a.Other) > 0 {
		return a.Other, nil
	}
	if kind == ActionKindCreateAccount {
		return json.Marshal(string(ActionKindCreateAccount))
	}
	return json.Marshal(actionFields(a))
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if ActionKind(name) != ActionKindCreateAccount {
			*a = Action{Other: append(json.RawMessage(nil), data...)}
			return nil
		}
		*a = Action{CreateAccount: &CreateAccountAction{}}
		return nil
	}

	var fields actionFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("could not decode action: %w", err)
	}
	*a = Action(fields)
	if a.Kind() == ActionKindUnknown {
		a.Other = append(json.RawMessage(nil), data...)
	}
	return nil
}

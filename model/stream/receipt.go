package stream

type Receipt struct {
	PredecessorID AccountID   `json:"predecessor_id"`
	ReceiverID    AccountID   `json:"receiver_id"`
	ReceiptID     CryptoHash  `json:"receipt_id"`
	Body          ReceiptBody `json:"receipt"`
}

// ReceiptBody is a tagged union: exactly one of its fields is set.
type ReceiptBody struct {
	Action *ActionReceipt `json:"Action,omitempty"`
	Data   *DataReceipt   `json:"Data,omitempty"`
}

// AsAction returns the action receipt if the body is of the Action kind.
func (b ReceiptBody) AsAction() (*ActionReceipt, bool) {
	return b.Action, b.Action != nil
}

type ActionReceipt struct {
	SignerID            AccountID          `json:"signer_id"`
	SignerPublicKey     string             `json:"signer_public_key"`
	GasPrice            Balance            `json:"gas_price"`
	OutputDataReceivers []DataReceiverView `json:"output_data_receivers"`
	InputDataIDs        []CryptoHash       `json:"input_data_ids"`
	Actions             []Action           `json:"actions"`
}

type DataReceiverView struct {
	DataID     CryptoHash `json:"data_id"`
	ReceiverID AccountID  `json:"receiver_id"`
}

type DataReceipt struct {
	DataID CryptoHash `json:"data_id"`
	Data   *string    `json:"data"` // base64, absent when the promise failed
}

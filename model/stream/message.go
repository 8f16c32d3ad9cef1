package stream

// StreamerMessage is the unit produced by the block stream: one block together with
// the per-shard data executed in it.
type StreamerMessage struct {
	Block  BlockView `json:"block"`
	Shards []Shard   `json:"shards"`
}

// Height is a shorthand for the height of the message's block.
func (m *StreamerMessage) Height() uint64 {
	return m.Block.Header.Height
}

type BlockView struct {
	Author AccountID       `json:"author"`
	Header BlockHeaderView `json:"header"`
}

type BlockHeaderView struct {
	Height    uint64     `json:"height"`
	Hash      CryptoHash `json:"hash"`
	PrevHash  CryptoHash `json:"prev_hash"`
	Timestamp uint64     `json:"timestamp"` // unix nanoseconds
}

// Shard holds the data a single shard contributed to a block.
type Shard struct {
	ShardID uint64 `json:"shard_id"`
	// Chunk is nil when the shard produced no new chunk for this block.
	Chunk                    *ChunkView                `json:"chunk"`
	ReceiptExecutionOutcomes []ReceiptExecutionOutcome `json:"receipt_execution_outcomes"`
}

type ChunkView struct {
	Author       AccountID                `json:"author"`
	Header       ChunkHeaderView          `json:"header"`
	Transactions []TransactionWithOutcome `json:"transactions"`
	Receipts     []Receipt                `json:"receipts"`
}

type ChunkHeaderView struct {
	ChunkHash      CryptoHash `json:"chunk_hash"`
	ShardID        uint64     `json:"shard_id"`
	HeightIncluded uint64     `json:"height_included"`
	GasUsed        uint64     `json:"gas_used"`
}

// TransactionWithOutcome is a transaction included in a chunk together with the
// outcome of converting it into a receipt.
type TransactionWithOutcome struct {
	Transaction SignedTransaction  `json:"transaction"`
	Outcome     TransactionOutcome `json:"outcome"`
}

type SignedTransaction struct {
	Hash       CryptoHash `json:"hash"`
	SignerID   AccountID  `json:"signer_id"`
	PublicKey  string     `json:"public_key"`
	Nonce      uint64     `json:"nonce"`
	ReceiverID AccountID  `json:"receiver_id"`
	Actions    []Action   `json:"actions"`
	Signature  string     `json:"signature"`
}

type TransactionOutcome struct {
	ExecutionOutcome ExecutionOutcomeWithID `json:"execution_outcome"`
	Receipt          *Receipt               `json:"receipt"`
}

// ReceiptIDs returns the receipts the transaction was converted into.
func (t *TransactionWithOutcome) ReceiptIDs() []CryptoHash {
	return t.Outcome.ExecutionOutcome.Outcome.ReceiptIDs
}

type ExecutionOutcomeWithID struct {
	ID        CryptoHash       `json:"id"`
	BlockHash CryptoHash       `json:"block_hash"`
	Outcome   ExecutionOutcome `json:"outcome"`
}

type ExecutionOutcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []CryptoHash    `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt Balance         `json:"tokens_burnt"`
	ExecutorID  AccountID       `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

// ReceiptExecutionOutcome pairs an executed receipt with its outcome.
type ReceiptExecutionOutcome struct {
	ExecutionOutcome ExecutionOutcomeWithID `json:"execution_outcome"`
	Receipt          Receipt                `json:"receipt"`
}

// Balance is a yocto-denominated amount in decimal text; it does not fit into 64 bits.
type Balance string

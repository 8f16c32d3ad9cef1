package unittest

import (
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"math/rand"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

func HashFixture() stream.CryptoHash {
	var raw [stream.HashLength]byte
	_, _ = crand.Read(raw[:])
	return stream.HashFromBytes(raw[:])
}

func HashListFixture(n int) []stream.CryptoHash {
	list := make([]stream.CryptoHash, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, HashFixture())
	}
	return list
}

func AccountIDFixture() stream.AccountID {
	return stream.AccountID(fmt.Sprintf("account-%d.test", rand.Uint32()))
}

func FunctionCallFixture(method string, args []byte) stream.Action {
	return stream.Action{FunctionCall: &stream.FunctionCallAction{
		MethodName: method,
		Args:       base64.StdEncoding.EncodeToString(args),
		Gas:        30_000_000_000_000,
		Deposit:    "0",
	}}
}

func TransferFixture() stream.Action {
	return stream.Action{Transfer: &stream.TransferAction{Deposit: "1000000000000000000000000"}}
}

func WithTxSigner(signer stream.AccountID) func(*stream.TransactionWithOutcome) {
	return func(tx *stream.TransactionWithOutcome) {
		tx.Transaction.SignerID = signer
	}
}

// WithReceiptIDs sets the receipts the transaction converts into; no ids
// leaves the transaction without any.
func WithReceiptIDs(ids ...stream.CryptoHash) func(*stream.TransactionWithOutcome) {
	return func(tx *stream.TransactionWithOutcome) {
		tx.Outcome.ExecutionOutcome.Outcome.ReceiptIDs = ids
	}
}

// TransactionFixture returns a transaction sent to the given receiver which
// converts into a single random receipt.
func TransactionFixture(receiver stream.AccountID, opts ...func(*stream.TransactionWithOutcome)) stream.TransactionWithOutcome {
	hash := HashFixture()
	signer := AccountIDFixture()
	tx := stream.TransactionWithOutcome{
		Transaction: stream.SignedTransaction{
			Hash:       hash,
			SignerID:   signer,
			PublicKey:  "ed25519:" + HashFixture().String(),
			Nonce:      rand.Uint64(),
			ReceiverID: receiver,
			Actions:    []stream.Action{TransferFixture()},
			Signature:  "ed25519:" + HashFixture().String(),
		},
		Outcome: stream.TransactionOutcome{
			ExecutionOutcome: stream.ExecutionOutcomeWithID{
				ID:        hash,
				BlockHash: HashFixture(),
				Outcome: stream.ExecutionOutcome{
					ReceiptIDs:  []stream.CryptoHash{HashFixture()},
					GasBurnt:    2_428_000_000_000,
					TokensBurnt: "242800000000000000000",
					ExecutorID:  signer,
					Status:      stream.StatusSuccessReceipt(HashFixture()),
				},
			},
		},
	}
	for _, apply := range opts {
		apply(&tx)
	}
	return tx
}

func WithStatus(status stream.ExecutionStatus) func(*stream.ReceiptExecutionOutcome) {
	return func(o *stream.ReceiptExecutionOutcome) {
		o.ExecutionOutcome.Outcome.Status = status
	}
}

// WithActionReceipt makes the outcome's receipt an action receipt signed by
// the given account.
func WithActionReceipt(signer stream.AccountID, actions ...stream.Action) func(*stream.ReceiptExecutionOutcome) {
	return func(o *stream.ReceiptExecutionOutcome) {
		o.Receipt.Body = stream.ReceiptBody{Action: &stream.ActionReceipt{
			SignerID:        signer,
			SignerPublicKey: "ed25519:" + HashFixture().String(),
			GasPrice:        "100000000",
			Actions:         actions,
		}}
	}
}

// WithDataReceipt makes the outcome's receipt a data receipt.
func WithDataReceipt() func(*stream.ReceiptExecutionOutcome) {
	return func(o *stream.ReceiptExecutionOutcome) {
		o.Receipt.Body = stream.ReceiptBody{Data: &stream.DataReceipt{DataID: HashFixture()}}
	}
}

// ReceiptOutcomeFixture returns the successful execution outcome of the given
// receipt, carried by a data receipt unless an option says otherwise.
func ReceiptOutcomeFixture(receiptID stream.CryptoHash, opts ...func(*stream.ReceiptExecutionOutcome)) stream.ReceiptExecutionOutcome {
	receiver := AccountIDFixture()
	outcome := stream.ReceiptExecutionOutcome{
		ExecutionOutcome: stream.ExecutionOutcomeWithID{
			ID:        receiptID,
			BlockHash: HashFixture(),
			Outcome: stream.ExecutionOutcome{
				GasBurnt:    2_428_000_000_000,
				TokensBurnt: "242800000000000000000",
				ExecutorID:  receiver,
				Status:      stream.StatusSuccess(""),
			},
		},
		Receipt: stream.Receipt{
			PredecessorID: AccountIDFixture(),
			ReceiverID:    receiver,
			ReceiptID:     receiptID,
		},
	}
	WithDataReceipt()(&outcome)
	for _, apply := range opts {
		apply(&outcome)
	}
	return outcome
}

// ShardFixture returns a shard with a chunk holding the given transactions
// and the given receipt outcomes.
func ShardFixture(txs []stream.TransactionWithOutcome, outcomes []stream.ReceiptExecutionOutcome) stream.Shard {
	return stream.Shard{
		ShardID: 0,
		Chunk: &stream.ChunkView{
			Author: AccountIDFixture(),
			Header: stream.ChunkHeaderView{
				ChunkHash: HashFixture(),
			},
			Transactions: txs,
		},
		ReceiptExecutionOutcomes: outcomes,
	}
}

// EmptyShardFixture returns a shard that produced no chunk.
func EmptyShardFixture(outcomes ...stream.ReceiptExecutionOutcome) stream.Shard {
	return stream.Shard{ReceiptExecutionOutcomes: outcomes}
}

func StreamerMessageFixture(height uint64, shards ...stream.Shard) *stream.StreamerMessage {
	for i := range shards {
		shards[i].ShardID = uint64(i)
		if shards[i].Chunk != nil {
			shards[i].Chunk.Header.ShardID = uint64(i)
			shards[i].Chunk.Header.HeightIncluded = height
		}
	}
	return &stream.StreamerMessage{
		Block: stream.BlockView{
			Author: AccountIDFixture(),
			Header: stream.BlockHeaderView{
				Height:    height,
				Hash:      HashFixture(),
				PrevHash:  HashFixture(),
				Timestamp: 1_600_000_000_000_000_000 + height*1_000_000_000,
			},
		},
		Shards: shards,
	}
}

// StreamerMessageSequenceFixture returns n chained messages starting at the given height.
func StreamerMessageSequenceFixture(start uint64, n int) []*stream.StreamerMessage {
	messages := make([]*stream.StreamerMessage, 0, n)
	for i := 0; i < n; i++ {
		msg := StreamerMessageFixture(start + uint64(i))
		if i > 0 {
			msg.Block.Header.PrevHash = messages[i-1].Block.Header.Hash
		}
		messages = append(messages, msg)
	}
	return messages
}

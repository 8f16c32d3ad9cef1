package watcher

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
	"github.com/nearwatch/receipt-watcher/module/mempool"
	"github.com/nearwatch/receipt-watcher/module/mempool/stdmap"
)

const (
	DropReasonCapacity = "capacity"
	DropReasonTTL      = "ttl"
)

// ErrMissingReceiptID is returned when a watched transaction was not converted into any
// receipt. Every transaction is converted into exactly one receipt, so this means the
// stream data is corrupted.
var ErrMissingReceiptID = errors.New("transaction outcome has no receipt ids")

// dumper prints decoded call arguments on the diagnostics writer.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Core correlates watched transactions with the execution outcomes of the receipts
// they were converted into.
//
// A transaction sent to a watched account is registered as pending under its first
// receipt id. When an outcome for that receipt id shows up, possibly many blocks later,
// one log record is emitted and the pending entry is removed.
//
// Core is not safe for concurrent use: messages must be processed one at a time, in
// stream order.
type Core struct {
	log         zerolog.Logger
	metrics     module.WatcherMetrics
	watched     WatchList
	pending     mempool.PendingReceipts
	diagnostics io.Writer
	config      Config
}

// NewCore creates a new correlation core. Decoded call arguments and signers of
// resolved receipts are written to diagnostics.
func NewCore(
	log zerolog.Logger,
	metrics module.WatcherMetrics,
	watched WatchList,
	diagnostics io.Writer,
	config Config,
) (*Core, error) {
	if len(watched) == 0 {
		return nil, fmt.Errorf("watch list must not be empty")
	}

	c := &Core{
		log:         log.With().Str("component", "watcher_core").Logger(),
		metrics:     metrics,
		watched:     watched,
		diagnostics: diagnostics,
		config:      config,
	}

	if config.PendingLimit > 0 {
		pending, err := stdmap.NewBoundedPendingReceipts(config.PendingLimit, c.onEjected)
		if err != nil {
			return nil, fmt.Errorf("could not create pending receipts: %w", err)
		}
		c.pending = pending
	} else {
		c.pending = stdmap.NewPendingReceipts()
	}

	return c, nil
}

// ProcessMessage handles a single streamer message. Within every shard, the chunk's
// transactions are registered before the shard's receipt outcomes are resolved.
//
// All returned errors are irrecoverable exceptions; benign anomalies of the stream
// data (missing chunks, unknown receipts, undecodable arguments) never produce an error.
func (c *Core) ProcessMessage(msg *stream.StreamerMessage) error {
	start := time.Now()
	height := msg.Height()

	transactions, outcomes := 0, 0
	for i := range msg.Shards {
		shard := &msg.Shards[i]

		n, err := c.registerTransactions(height, shard)
		if err != nil {
			return fmt.Errorf("could not register transactions of shard %d: %w", shard.ShardID, err)
		}
		transactions += n

		outcomes += c.resolveOutcomes(height, shard)
	}

	if c.config.PendingTTL > 0 && height > c.config.PendingTTL {
		expired := c.pending.PruneUpToHeight(height - c.config.PendingTTL)
		c.reportDropped(expired, DropReasonTTL)
	}

	c.metrics.PendingReceipts(c.pending.Size())
	c.metrics.BlockProcessed(height, time.Since(start), transactions, outcomes)
	return nil
}

// registerTransactions registers every watched transaction of the shard's chunk as pending.
// Shards without a new chunk are skipped.
func (c *Core) registerTransactions(height uint64, shard *stream.Shard) (int, error) {
	if shard.Chunk == nil {
		return 0, nil
	}

	for i := range shard.Chunk.Transactions {
		tx := &shard.Chunk.Transactions[i]
		if !IsWatched(&tx.Transaction, c.watched) {
			continue
		}

		receiptIDs := tx.ReceiptIDs()
		if len(receiptIDs) == 0 {
			return 0, irrecoverable.NewExceptionf("watched transaction %s: %w", tx.Transaction.Hash, ErrMissingReceiptID)
		}

		receipt := mempool.PendingReceipt{
			ReceiptID:  receiptIDs[0],
			TxHash:     tx.Transaction.Hash,
			ReceiverID: tx.Transaction.ReceiverID,
			Height:     height,
		}
		// the latest transaction converted into a receipt id owns it
		if c.pending.Has(receipt.ReceiptID) {
			replaced, _ := c.pending.Take(receipt.ReceiptID)
			c.log.Warn().
				Str("tx_hash", receipt.TxHash.String()).
				Str("replaced_tx_hash", replaced.TxHash.String()).
				Str("receipt_id", receipt.ReceiptID.String()).
				Msg("receipt is already pending, replacing transaction")
		}
		c.pending.Add(receipt)

		c.metrics.TransactionMatched()
		c.log.Debug().
			Str("tx_hash", receipt.TxHash.String()).
			Str("receipt_id", receipt.ReceiptID.String()).
			Str("receiver", receipt.ReceiverID.String()).
			Uint64("height", height).
			Msg("watched transaction registered")
	}

	return len(shard.Chunk.Transactions), nil
}

// resolveOutcomes emits a record for every outcome of a pending receipt and removes it
// from the pending receipts. Outcomes of other receipts are ignored.
func (c *Core) resolveOutcomes(height uint64, shard *stream.Shard) int {
	for i := range shard.ReceiptExecutionOutcomes {
		outcome := &shard.ReceiptExecutionOutcomes[i]

		pending, ok := c.pending.Take(outcome.Receipt.ReceiptID)
		if !ok {
			continue
		}

		status := outcome.ExecutionOutcome.Outcome.Status
		c.log.Info().
			Str("tx_hash", pending.TxHash.String()).
			Str("receiver", pending.ReceiverID.String()).
			Str("receipt_id", pending.ReceiptID.String()).
			Str("status", status.String()).
			Interface("status_detail", status).
			Uint64("height", height).
			Uint64("registered_height", pending.Height).
			Msg("watched transaction executed")
		c.metrics.ReceiptResolved(status.IsSuccess())

		if action, ok := outcome.Receipt.Body.AsAction(); ok {
			c.traceActionReceipt(pending, action)
		}
	}

	return len(shard.ReceiptExecutionOutcomes)
}

// traceActionReceipt writes the signer and the decoded function call arguments of a
// resolved receipt to the diagnostics writer. Arguments which cannot be decoded are skipped.
func (c *Core) traceActionReceipt(pending mempool.PendingReceipt, action *stream.ActionReceipt) {
	fmt.Fprintln(c.diagnostics, action.SignerID)

	for i, a := range action.Actions {
		call, ok := a.AsFunctionCall()
		if !ok {
			continue
		}

		args, err := DecodeFunctionCallArgs(call.Args)
		if err != nil {
			c.metrics.ArgsDecodeFailed(decodeStage(err))
			c.log.Trace().
				Err(err).
				Str("receipt_id", pending.ReceiptID.String()).
				Str("method", call.MethodName).
				Int("action_index", i).
				Msg("skipping undecodable function call args")
			continue
		}

		dumper.Fdump(c.diagnostics, args)
	}
}

func (c *Core) onEjected(receipt mempool.PendingReceipt) {
	c.reportDropped([]mempool.PendingReceipt{receipt}, DropReasonCapacity)
}

// reportDropped logs pending receipts which were removed before their outcome was observed.
func (c *Core) reportDropped(receipts []mempool.PendingReceipt, reason string) {
	if len(receipts) == 0 {
		return
	}

	for _, receipt := range receipts {
		c.log.Warn().
			Str("tx_hash", receipt.TxHash.String()).
			Str("receiver", receipt.ReceiverID.String()).
			Str("receipt_id", receipt.ReceiptID.String()).
			Uint64("registered_height", receipt.Height).
			Str("reason", reason).
			Msg("watched transaction expired without outcome")
	}
	c.metrics.PendingReceiptsDropped(reason, len(receipts))
}

// Pending returns the watched transactions still waiting for their outcome, in no particular order.
func (c *Core) Pending() []mempool.PendingReceipt {
	return c.pending.All()
}

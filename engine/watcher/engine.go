package watcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module/component"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
)

// Engine drains a stream of block messages and hands them to the Core, one at a time.
// It shuts down once the stream is closed or its context is cancelled.
type Engine struct {
	*component.ComponentManager
	log      zerolog.Logger
	core     *Core
	messages <-chan *stream.StreamerMessage
}

func New(log zerolog.Logger, core *Core, messages <-chan *stream.StreamerMessage) *Engine {
	e := &Engine{
		log:      log.With().Str("engine", "watcher").Logger(),
		core:     core,
		messages: messages,
	}

	e.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(e.processMessages).
		Build()

	return e
}

// processMessages is the single consumer of the block stream. A message is processed to
// completion before the next one is read. Processing errors are irrecoverable.
func (e *Engine) processMessages(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-e.messages:
			if !ok {
				e.reportPending()
				return
			}

			e.log.Trace().Uint64("height", msg.Height()).Int("shards", len(msg.Shards)).Msg("processing block")
			if err := e.core.ProcessMessage(msg); err != nil {
				ctx.Throw(fmt.Errorf("could not process block at height %d: %w", msg.Height(), err))
				return
			}
		}
	}
}

// reportPending logs the watched transactions whose outcome was not part of the stream.
func (e *Engine) reportPending() {
	pending := e.core.Pending()
	for _, receipt := range pending {
		e.log.Info().
			Str("tx_hash", receipt.TxHash.String()).
			Str("receiver", receipt.ReceiverID.String()).
			Str("receipt_id", receipt.ReceiptID.String()).
			Uint64("registered_height", receipt.Height).
			Msg("watched transaction still pending at end of stream")
	}
	e.log.Info().
		Int("pending_receipts", len(pending)).
		Msg("block stream closed, stopping")
}

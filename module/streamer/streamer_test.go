package streamer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
	"github.com/nearwatch/receipt-watcher/module/metrics"
	mockmodule "github.com/nearwatch/receipt-watcher/module/mock"
	bstorage "github.com/nearwatch/receipt-watcher/storage/badger"
	"github.com/nearwatch/receipt-watcher/utils/unittest"
)

type failingSource struct {
	err error
}

func (f failingSource) Next(context.Context) (*stream.StreamerMessage, error) {
	return nil, f.err
}

func drain(t *testing.T, messages <-chan *stream.StreamerMessage) []uint64 {
	var heights []uint64
	unittest.RequireReturnsBefore(t, func() {
		for msg := range messages {
			heights = append(heights, msg.Height())
		}
	}, 5*time.Second, "message channel was not closed")
	return heights
}

// the streamer delivers every stored message in order, records the delivered
// heights and closes the channel at the end of the stream
func TestStreamer_DeliversAndRecordsProgress(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewStreamMessages(db)
		progress := bstorage.NewConsumerProgress(db, ConsumerName)
		storeHeights(t, store, 2, 3, 5)

		collector := mockmodule.NewStreamerMetrics(t)
		for _, height := range []uint64{2, 3, 5} {
			collector.On("MessageDelivered", height).Once()
		}

		config := testConfig()
		config.BufferSize = 1
		source, err := NewStoreSource(unittest.Logger(), collector, store, 0, config)
		require.NoError(t, err)
		streamer := New(unittest.Logger(), collector, source, progress, config)

		ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
		defer cancel()
		streamer.Start(ctx)

		assert.Equal(t, []uint64{2, 3, 5}, drain(t, streamer.Messages()))
		unittest.RequireCloseBefore(t, streamer.Done(), time.Second, "streamer did not stop")

		processed, err := progress.ProcessedIndex()
		require.NoError(t, err)
		assert.Equal(t, uint64(5), processed)

		// a restart resumes after the last delivered height
		start, err := StartHeight(SyncFromInterruption, store, progress, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), start)
	})
}

func TestStreamer_FileSourceWithoutProgress(t *testing.T) {
	source := &sliceSource{messages: unittest.StreamerMessageSequenceFixture(1, 4)}
	streamer := New(unittest.Logger(), metrics.NewNoopCollector(), source, nil, testConfig())

	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	defer cancel()
	streamer.Start(ctx)

	assert.Equal(t, []uint64{1, 2, 3, 4}, drain(t, streamer.Messages()))
}

// cancellation stops a streamer blocked on a full channel
func TestStreamer_Cancelled(t *testing.T) {
	source := &sliceSource{messages: unittest.StreamerMessageSequenceFixture(1, 10)}
	config := testConfig()
	config.BufferSize = 1
	streamer := New(unittest.Logger(), metrics.NewNoopCollector(), source, nil, config)

	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	streamer.Start(ctx)
	unittest.RequireCloseBefore(t, streamer.Ready(), time.Second, "streamer not ready")

	cancel()
	unittest.RequireCloseBefore(t, streamer.Done(), time.Second, "streamer did not stop")
}

func TestStreamer_SourceFailure(t *testing.T) {
	errCorrupted := errors.New("corrupted input")
	streamer := New(unittest.Logger(), metrics.NewNoopCollector(), failingSource{err: errCorrupted}, nil, testConfig())

	ctx := irrecoverable.NewMockSignalerContextExpectError(t, context.Background(), errCorrupted)
	streamer.Start(ctx)

	unittest.RequireCloseBefore(t, streamer.Done(), time.Second, "streamer did not stop")
	_, ok := <-streamer.Messages()
	assert.False(t, ok)
}

type sliceSource struct {
	messages []*stream.StreamerMessage
}

func (s *sliceSource) Next(ctx context.Context) (*stream.StreamerMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.messages) == 0 {
		return nil, ErrEndOfStream
	}
	msg := s.messages[0]
	s.messages = s.messages[1:]
	return msg, nil
}

package watcher

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
	"github.com/nearwatch/receipt-watcher/module/metrics"
	mockmodule "github.com/nearwatch/receipt-watcher/module/mock"
	"github.com/nearwatch/receipt-watcher/utils/unittest"
)

const (
	executedMsg = "watched transaction executed"
	expiredMsg  = "watched transaction expired without outcome"
)

type CoreSuite struct {
	suite.Suite

	recorder    *unittest.LogRecorder
	diagnostics *bytes.Buffer
	watched     WatchList
	core        *Core
}

func TestCore(t *testing.T) {
	suite.Run(t, new(CoreSuite))
}

func (cs *CoreSuite) SetupTest() {
	cs.recorder = unittest.NewLogRecorder()
	cs.diagnostics = &bytes.Buffer{}
	cs.watched = NewWatchList("alice.test")
	cs.core = cs.newCore(DefaultConfig())
}

func (cs *CoreSuite) newCore(config Config) *Core {
	core, err := NewCore(
		cs.recorder.Logger(zerolog.InfoLevel),
		metrics.NewNoopCollector(),
		cs.watched,
		cs.diagnostics,
		config,
	)
	cs.Require().NoError(err)
	return core
}

func (cs *CoreSuite) process(msg *stream.StreamerMessage) {
	cs.Require().NoError(cs.core.ProcessMessage(msg))
}

func (cs *CoreSuite) executed() []map[string]interface{} {
	return cs.recorder.RecordsWithMessage(cs.T(), executedMsg)
}

// a watched transaction resolved in a later block produces exactly one record
func (cs *CoreSuite) TestResolvedInLaterBlock() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.Assert().Empty(cs.executed())
	cs.Assert().Len(cs.core.Pending(), 1)

	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithStatus(stream.StatusSuccess("")))
	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{outcome})))

	records := cs.executed()
	cs.Require().Len(records, 1)
	record := records[0]
	cs.Assert().Equal("info", record[zerolog.LevelFieldName])
	cs.Assert().Equal(tx.Transaction.Hash.String(), record["tx_hash"])
	cs.Assert().Equal("alice.test", record["receiver"])
	cs.Assert().Equal(r1.String(), record["receipt_id"])
	cs.Assert().Equal(string(stream.StatusSuccessValue), record["status"])
	cs.Assert().EqualValues(43, record["height"])
	cs.Assert().EqualValues(42, record["registered_height"])
	cs.Assert().Len(cs.core.Pending(), 0)
}

// registration precedes resolution within a shard, so a receipt executed in the
// block including its transaction is resolved right away
func (cs *CoreSuite) TestResolvedInSameShard() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	outcome := unittest.ReceiptOutcomeFixture(r1)

	cs.process(unittest.StreamerMessageFixture(42,
		unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, []stream.ReceiptExecutionOutcome{outcome}),
	))

	cs.Require().Len(cs.executed(), 1)
	cs.Assert().Len(cs.core.Pending(), 0)
}

// shards are processed in order: a transaction in shard 0 is resolved by an
// outcome in shard 1 of the same block, but not the other way round
func (cs *CoreSuite) TestShardOrder() {
	r1, r2 := unittest.HashFixture(), unittest.HashFixture()
	tx1 := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	tx2 := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r2))

	cs.process(unittest.StreamerMessageFixture(42,
		unittest.ShardFixture([]stream.TransactionWithOutcome{tx1}, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r2)}),
		unittest.ShardFixture([]stream.TransactionWithOutcome{tx2}, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)}),
	))

	records := cs.executed()
	cs.Require().Len(records, 1)
	cs.Assert().Equal(r1.String(), records[0]["receipt_id"])
	cs.Assert().Len(cs.core.Pending(), 1)
}

func (cs *CoreSuite) TestUnwatchedReceiver() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("bob.test", unittest.WithReceiptIDs(r1), unittest.WithTxSigner("alice.test"))

	cs.process(unittest.StreamerMessageFixture(42,
		unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)}),
	))

	cs.Assert().Empty(cs.executed())
	cs.Assert().Len(cs.core.Pending(), 0)
	cs.Assert().Zero(cs.diagnostics.Len())
}

// an outcome observed before its transaction is ignored, the transaction then
// waits for an outcome which will never come again
func (cs *CoreSuite) TestOutcomeBeforeTransaction() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)})))
	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))

	cs.Assert().Empty(cs.executed())
	cs.Assert().Len(cs.core.Pending(), 1)
}

func (cs *CoreSuite) TestResolvedOnce() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	outcome := unittest.ReceiptOutcomeFixture(r1)

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{outcome, outcome})))
	cs.process(unittest.StreamerMessageFixture(44, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{outcome})))

	cs.Assert().Len(cs.executed(), 1)
}

// only the first receipt of a transaction is tracked
func (cs *CoreSuite) TestFirstReceiptOnly() {
	r1, r2 := unittest.HashFixture(), unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1, r2))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r2)})))
	cs.Assert().Empty(cs.executed())

	cs.process(unittest.StreamerMessageFixture(44, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)})))
	cs.Assert().Len(cs.executed(), 1)
}

// a transaction without receipts is corrupted stream data and fails processing
// without touching the pending receipts
func (cs *CoreSuite) TestMissingReceiptID() {
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs())

	err := cs.core.ProcessMessage(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.Require().Error(err)
	cs.Assert().True(irrecoverable.IsException(err))
	cs.Assert().ErrorIs(err, ErrMissingReceiptID)
	cs.Assert().Len(cs.core.Pending(), 0)
}

// unwatched transactions are never checked for receipts
func (cs *CoreSuite) TestMissingReceiptID_Unwatched() {
	tx := unittest.TransactionFixture("bob.test", unittest.WithReceiptIDs())

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
}

// a shard without chunk still resolves receipt outcomes
func (cs *CoreSuite) TestShardWithoutChunk() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.process(unittest.StreamerMessageFixture(43,
		unittest.EmptyShardFixture(),
		unittest.EmptyShardFixture(unittest.ReceiptOutcomeFixture(r1)),
	))

	cs.Assert().Len(cs.executed(), 1)
}

func (cs *CoreSuite) TestFailedReceipt() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	failure := stream.StatusFailed(stream.ExecutionError{"ActionError": map[string]interface{}{
		"index": 0,
		"kind":  map[string]interface{}{"FunctionCallError": map[string]interface{}{"ExecutionError": "Smart contract panicked: out of coffee"}},
	}})

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))
	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{
		unittest.ReceiptOutcomeFixture(r1, unittest.WithStatus(failure)),
	})))

	records := cs.executed()
	cs.Require().Len(records, 1)
	cs.Assert().Equal(string(stream.StatusFailure), records[0]["status"])
	cs.Assert().Equal(map[string]interface{}{
		"Failure": map[string]interface{}{"ActionError": map[string]interface{}{
			"index": float64(0),
			"kind":  map[string]interface{}{"FunctionCallError": map[string]interface{}{"ExecutionError": "Smart contract panicked: out of coffee"}},
		}},
	}, records[0]["status_detail"])
}

// the returned value of a successful receipt is part of the record
func (cs *CoreSuite) TestSuccessValueDetail() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithStatus(stream.StatusSuccess("dHJ1ZQ==")))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, []stream.ReceiptExecutionOutcome{outcome})))

	records := cs.executed()
	cs.Require().Len(records, 1)
	cs.Assert().Equal(string(stream.StatusSuccessValue), records[0]["status"])
	cs.Assert().Equal(map[string]interface{}{"SuccessValue": "dHJ1ZQ=="}, records[0]["status_detail"])
}

// the signer and decoded arguments of an action receipt go to the diagnostics writer
func (cs *CoreSuite) TestDiagnostics() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithActionReceipt("carol.test",
		unittest.TransferFixture(),
		unittest.FunctionCallFixture("set", []byte(`{"a":1}`)),
	))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, []stream.ReceiptExecutionOutcome{outcome})))

	cs.Require().Len(cs.executed(), 1)
	out := cs.diagnostics.String()
	cs.Assert().Contains(out, "carol.test\n")
	cs.Assert().Contains(out, `"a"`)
	cs.Assert().Contains(out, "(float64) 1")
}

// undecodable arguments are skipped, the record is emitted regardless
func (cs *CoreSuite) TestUndecodableArgs() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	notBase64 := unittest.FunctionCallFixture("set", nil)
	notBase64.FunctionCall.Args = "!"
	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithActionReceipt("carol.test",
		notBase64,
		unittest.FunctionCallFixture("set", []byte("not json")),
	))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, []stream.ReceiptExecutionOutcome{outcome})))

	cs.Require().Len(cs.executed(), 1)
	cs.Assert().Equal("carol.test\n", cs.diagnostics.String())
}

// data receipts have no signer, nothing is written to the diagnostics writer
func (cs *CoreSuite) TestDataReceipt() {
	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture(
		[]stream.TransactionWithOutcome{tx},
		[]stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1, unittest.WithDataReceipt())},
	)))

	cs.Require().Len(cs.executed(), 1)
	cs.Assert().Zero(cs.diagnostics.Len())
}

// a second transaction converted into an already pending receipt replaces the first
func (cs *CoreSuite) TestDuplicateReceipt() {
	r1 := unittest.HashFixture()
	first := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	second := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))

	cs.process(unittest.StreamerMessageFixture(42, unittest.ShardFixture([]stream.TransactionWithOutcome{first, second}, nil)))
	cs.Assert().Len(cs.core.Pending(), 1)

	cs.process(unittest.StreamerMessageFixture(43, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)})))
	records := cs.executed()
	cs.Require().Len(records, 1)
	cs.Assert().Equal(second.Transaction.Hash.String(), records[0]["tx_hash"])

	warnings := cs.recorder.RecordsWithMessage(cs.T(), "receipt is already pending, replacing transaction")
	cs.Require().Len(warnings, 1)
	cs.Assert().Equal(first.Transaction.Hash.String(), warnings[0]["replaced_tx_hash"])
}

func (cs *CoreSuite) TestPendingTTL() {
	cs.core = cs.newCore(Config{PendingTTL: 5})

	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	cs.process(unittest.StreamerMessageFixture(10, unittest.ShardFixture([]stream.TransactionWithOutcome{tx}, nil)))

	// still within the window
	cs.process(unittest.StreamerMessageFixture(15))
	cs.Assert().Len(cs.core.Pending(), 1)

	cs.process(unittest.StreamerMessageFixture(16))
	cs.Assert().Len(cs.core.Pending(), 0)

	expired := cs.recorder.RecordsWithMessage(cs.T(), expiredMsg)
	cs.Require().Len(expired, 1)
	cs.Assert().Equal("warn", expired[0][zerolog.LevelFieldName])
	cs.Assert().Equal(DropReasonTTL, expired[0]["reason"])
	cs.Assert().Equal(tx.Transaction.Hash.String(), expired[0]["tx_hash"])

	// a late outcome no longer produces a record
	cs.process(unittest.StreamerMessageFixture(17, unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{unittest.ReceiptOutcomeFixture(r1)})))
	cs.Assert().Empty(cs.executed())
}

func (cs *CoreSuite) TestPendingLimit() {
	cs.core = cs.newCore(Config{PendingLimit: 2})

	txs := []stream.TransactionWithOutcome{
		unittest.TransactionFixture("alice.test"),
		unittest.TransactionFixture("alice.test"),
		unittest.TransactionFixture("alice.test"),
	}
	cs.process(unittest.StreamerMessageFixture(10, unittest.ShardFixture(txs, nil)))
	cs.Assert().Len(cs.core.Pending(), 2)

	expired := cs.recorder.RecordsWithMessage(cs.T(), expiredMsg)
	cs.Require().Len(expired, 1)
	cs.Assert().Equal(DropReasonCapacity, expired[0]["reason"])
	cs.Assert().Equal(txs[0].Transaction.Hash.String(), expired[0]["tx_hash"])
}

func TestNewCore_EmptyWatchList(t *testing.T) {
	_, err := NewCore(unittest.Logger(), metrics.NewNoopCollector(), WatchList{}, &bytes.Buffer{}, DefaultConfig())
	assert.Error(t, err)
}

func TestCore_Metrics(t *testing.T) {
	collector := mockmodule.NewWatcherMetrics(t)
	core, err := NewCore(unittest.Logger(), collector, NewWatchList("alice.test"), &bytes.Buffer{}, DefaultConfig())
	require.NoError(t, err)

	r1 := unittest.HashFixture()
	tx := unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))
	unwatched := unittest.TransactionFixture("bob.test")
	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithActionReceipt("carol.test",
		unittest.FunctionCallFixture("set", []byte("not json")),
	))

	collector.On("TransactionMatched").Once()
	collector.On("PendingReceipts", uint(1)).Once()
	collector.On("BlockProcessed", uint64(42), mock.Anything, 2, 0).Once()
	require.NoError(t, core.ProcessMessage(unittest.StreamerMessageFixture(42,
		unittest.ShardFixture([]stream.TransactionWithOutcome{tx, unwatched}, nil),
	)))

	collector.On("ReceiptResolved", true).Once()
	collector.On("ArgsDecodeFailed", DecodeStageJSON).Once()
	collector.On("PendingReceipts", uint(0)).Once()
	collector.On("BlockProcessed", uint64(43), mock.Anything, 0, 1).Once()
	require.NoError(t, core.ProcessMessage(unittest.StreamerMessageFixture(43,
		unittest.ShardFixture(nil, []stream.ReceiptExecutionOutcome{outcome}),
	)))
}

func TestCore_InvalidBase64Metric(t *testing.T) {
	collector := mockmodule.NewWatcherMetrics(t)
	collector.On("TransactionMatched")
	collector.On("PendingReceipts", mock.Anything)
	collector.On("BlockProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	collector.On("ReceiptResolved", true)
	collector.On("ArgsDecodeFailed", DecodeStageBase64).Once()

	core, err := NewCore(unittest.Logger(), collector, NewWatchList("alice.test"), &bytes.Buffer{}, DefaultConfig())
	require.NoError(t, err)

	r1 := unittest.HashFixture()
	call := stream.Action{FunctionCall: &stream.FunctionCallAction{MethodName: "set", Args: "e30!"}}
	outcome := unittest.ReceiptOutcomeFixture(r1, unittest.WithActionReceipt("carol.test", call))

	require.NoError(t, core.ProcessMessage(unittest.StreamerMessageFixture(42, unittest.ShardFixture(
		[]stream.TransactionWithOutcome{unittest.TransactionFixture("alice.test", unittest.WithReceiptIDs(r1))},
		[]stream.ReceiptExecutionOutcome{outcome},
	))))
}

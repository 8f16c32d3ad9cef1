package unittest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

func LogVerbose() {
	*verbose = true
}

// Logger returns a zerolog
// use -vv flag to print debugging logs for tests
func Logger() zerolog.Logger {
	writer := io.Discard
	if *verbose {
		writer = os.Stderr
	}

	return LoggerWithWriterAndLevel(writer, zerolog.TraceLevel)
}

func LoggerWithWriterAndLevel(writer io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return log
}

// LogRecorder collects JSON log records so tests can assert on them.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Logger returns a logger writing to the recorder at the given level.
func (r *LogRecorder) Logger(level zerolog.Level) zerolog.Logger {
	return LoggerWithWriterAndLevel(r, level)
}

// Records decodes every record written so far.
func (r *LogRecorder) Records(t testing.TB) []map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(r.buf.Bytes()))
	for scanner.Scan() {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

// RecordsWithMessage returns the records whose message equals msg.
func (r *LogRecorder) RecordsWithMessage(t testing.TB, msg string) []map[string]interface{} {
	var matching []map[string]interface{}
	for _, record := range r.Records(t) {
		if record[zerolog.MessageFieldName] == msg {
			matching = append(matching, record)
		}
	}
	return matching
}

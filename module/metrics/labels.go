package metrics

const (
	LabelReason  = "reason"
	LabelStage   = "stage"
	LabelOutcome = "outcome"
)

const (
	namespaceWatcher = "receipt_watcher"
)

const (
	subsystemEngine   = "engine"
	subsystemStreamer = "streamer"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

package watcher

// Config defines the tunables of the receipt watcher.
type Config struct {
	// PendingLimit is the maximum number of pending receipts kept at a time. When the
	// limit is reached, the oldest pending receipt is dropped. Zero means unbounded.
	PendingLimit uint

	// PendingTTL is the number of blocks a receipt may stay pending before it is dropped.
	// Zero means pending receipts never expire.
	PendingTTL uint64
}

// DefaultConfig keeps every pending receipt until its outcome is observed.
func DefaultConfig() Config {
	return Config{
		PendingLimit: 0,
		PendingTTL:   0,
	}
}

package watcher

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

// WatchList is the set of accounts whose incoming transactions are watched.
type WatchList map[stream.AccountID]struct{}

func NewWatchList(accounts ...stream.AccountID) WatchList {
	watched := make(WatchList, len(accounts))
	for _, account := range accounts {
		watched[account] = struct{}{}
	}
	return watched
}

// ParseWatchList validates the given account ids and builds a watch list from them.
// Surrounding whitespace is trimmed; empty entries are skipped. All invalid entries
// are reported in the returned error, not only the first one.
func ParseWatchList(accounts []string) (WatchList, error) {
	var result *multierror.Error
	watched := make(WatchList, len(accounts))
	for _, raw := range accounts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		account, err := stream.ParseAccountID(raw)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		watched[account] = struct{}{}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(watched) == 0 {
		return nil, fmt.Errorf("at least one account must be watched")
	}
	return watched, nil
}

func (w WatchList) Contains(account stream.AccountID) bool {
	_, ok := w[account]
	return ok
}

// Accounts returns the watched accounts in lexicographic order.
func (w WatchList) Accounts() []stream.AccountID {
	accounts := maps.Keys(w)
	slices.Sort(accounts)
	return accounts
}

// Strings is like Accounts, for logging.
func (w WatchList) Strings() []string {
	accounts := w.Accounts()
	ss := make([]string, 0, len(accounts))
	for _, account := range accounts {
		ss = append(ss, string(account))
	}
	return ss
}

// IsWatched returns true iff the transaction was sent to a watched account.
// Accounts are compared for exact equality.
func IsWatched(tx *stream.SignedTransaction, watched WatchList) bool {
	return watched.Contains(tx.ReceiverID)
}

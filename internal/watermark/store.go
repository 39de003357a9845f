// Package watermark persists the last-processed-ticket timestamp and the
// set of already relayed ticket IDs. Only the poller touches a store.
package watermark

import (
	"context"
	"time"
)

// Store persists the dedup state between poll cycles. The watermark is
// monotonically non-decreasing; Save calls that would move it backwards
// are ignored.
type Store interface {
	// Load returns the current watermark. A store with no prior state
	// initializes the watermark to the current time and persists it, so a
	// fresh deployment does not replay the vendor's entire backlog.
	Load(ctx context.Context) (time.Time, error)
	// Save advances the watermark.
	Save(ctx context.Context, ts time.Time) error
	// Seen reports whether a ticket ID was already relayed.
	Seen(ctx context.Context, ticketID int64) (bool, error)
	// MarkSeen records a ticket ID as relayed.
	MarkSeen(ctx context.Context, ticketID int64) error
}

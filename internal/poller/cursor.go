package poller

import "time"

// Cursor is the persisted state of one trigger. A nil field means the
// corresponding baseline has not been captured yet.
type Cursor struct {
	LastBlockHeight       *int64   `json:"lastBlockHeight,omitempty"`
	LastSeenTransactionID *string  `json:"lastSeenTransactionId,omitempty"`
	LastConfirmationCount *int64   `json:"lastConfirmationCount,omitempty"`
	Triggered             bool     `json:"triggered,omitempty"`
	LastFeeValue          *float64 `json:"lastFeeValue,omitempty"`
	// FeeChanges counts emitted fee events; it makes each emission's key unique.
	FeeChanges int64 `json:"feeChanges,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Equal compares the tracked fields. UpdatedAt is ignored.
func (c Cursor) Equal(o Cursor) bool {
	return eqPtr(c.LastBlockHeight, o.LastBlockHeight) &&
		eqPtr(c.LastSeenTransactionID, o.LastSeenTransactionID) &&
		eqPtr(c.LastConfirmationCount, o.LastConfirmationCount) &&
		c.Triggered == o.Triggered &&
		eqPtr(c.LastFeeValue, o.LastFeeValue) &&
		c.FeeChanges == o.FeeChanges
}

// IsZero reports whether no baseline has been captured for any kind.
func (c Cursor) IsZero() bool {
	return c.Equal(Cursor{})
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ptr[T any](v T) *T {
	return &v
}

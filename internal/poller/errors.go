package poller

import (
	"errors"

	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

var (
	ErrInvalidTrigger  = errors.New("invalid trigger")
	ErrUnsupportedKind = errors.New("unsupported event kind")
)

// PollError is a failed cycle. The cursor is left untouched and the next
// cycle starts again from the last committed state.
type PollError struct {
	Trigger string
	Kind    enum.EventKind
	Err     error
}

func (e *PollError) Error() string {
	return "bitcoin trigger error: " + e.Err.Error()
}

func (e *PollError) Unwrap() error {
	return e.Err
}

func pollError(t Trigger, err error) error {
	return &PollError{Trigger: t.Name, Kind: t.Event, Err: err}
}

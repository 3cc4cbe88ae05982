package worker

import (
	"context"

	"github.com/fystack/mempool-bridge/internal/poller"
)

// Worker is the interface implemented by all worker types.
type Worker interface {
	Start()
	Stop()
}

// Cycler runs one poll cycle for a trigger.
type Cycler interface {
	RunOnce(ctx context.Context, t poller.Trigger) (*poller.CycleResult, error)
}

// ErrorSink receives failed cycles.
type ErrorSink interface {
	EmitError(trigger string, err error) error
}

package worker

import (
	"context"
	"fmt"
	"slices"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/config"
)

// BuildWorkers creates one worker per configured trigger. A non-empty only
// restricts the set to those trigger names.
func BuildWorkers(ctx context.Context, cfg *config.Config, cycler Cycler, errs ErrorSink, only ...string) ([]Worker, error) {
	workers := make([]Worker, 0, len(cfg.Triggers))
	for _, tc := range cfg.Triggers {
		if len(only) > 0 && !slices.Contains(only, tc.Name) {
			continue
		}
		t, err := poller.TriggerFromConfig(tc, cfg.Bitcoin)
		if err != nil {
			return nil, fmt.Errorf("trigger %s: %w", tc.Name, err)
		}
		workers = append(workers, NewTriggerWorker(ctx, t, Schedule{
			PollInterval: tc.PollInterval,
			CycleTimeout: tc.CycleTimeout,
		}, cycler, errs))
	}
	for _, name := range only {
		if _, ok := cfg.Trigger(name); !ok {
			return nil, fmt.Errorf("unknown trigger %q", name)
		}
	}
	return workers, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/spf13/cobra"
)

type pollOutput struct {
	TriggerID string         `json:"trigger_id"`
	Events    []poller.Event `json:"events"`
	Cursor    poller.Cursor  `json:"cursor"`
	Committed bool           `json:"committed"`
	DryRun    bool           `json:"dry_run,omitempty"`
}

func newPollCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "poll <trigger>",
		Short: "Run a single poll cycle for one trigger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			tc, t, err := resolveTrigger(cfg, args[0])
			if err != nil {
				return err
			}
			api, err := newMempoolClient(cfg)
			if err != nil {
				return err
			}
			cursors, err := openCursorStore(cfg)
			if err != nil {
				return err
			}
			defer cursors.Close()

			engine := poller.NewEngine(api, cfg.Bitcoin.ChainParams())
			ctx, cancel := context.WithTimeout(cmd.Context(), tc.CycleTimeout)
			defer cancel()

			if dryRun {
				current, _, err := cursors.Get(t.ID())
				if err != nil {
					return err
				}
				events, next, err := engine.Poll(ctx, t, current)
				if err != nil {
					return err
				}
				return printJSON(pollOutput{TriggerID: t.ID(), Events: events, Cursor: next, DryRun: true})
			}

			emitter, closeEmitter, err := newEmitter(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeEmitter()

			res, err := poller.NewRunner(engine, cursors, emitter).RunOnce(ctx, t)
			if err != nil {
				return err
			}
			return printJSON(pollOutput{
				TriggerID: res.TriggerID,
				Events:    res.Events,
				Cursor:    res.Cursor,
				Committed: res.Committed,
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute events without publishing or committing the cursor")
	return cmd
}

func resolveTrigger(cfg *config.Config, name string) (config.TriggerConfig, poller.Trigger, error) {
	tc, ok := cfg.Trigger(name)
	if !ok {
		return tc, poller.Trigger{}, fmt.Errorf("unknown trigger %q", name)
	}
	t, err := poller.TriggerFromConfig(tc, cfg.Bitcoin)
	return tc, t, err
}

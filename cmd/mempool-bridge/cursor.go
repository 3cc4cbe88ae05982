package main

import (
	"fmt"
	"os"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/spf13/cobra"
)

type cursorEntry struct {
	TriggerID string        `json:"trigger_id"`
	Trigger   string        `json:"trigger,omitempty"`
	Cursor    poller.Cursor `json:"cursor"`
}

func newCursorCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursor",
		Short: "Inspect or reset persisted trigger cursors",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [trigger]",
		Short: "Print stored cursors, or the cursor of one trigger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			cursors, err := openCursorStore(cfg)
			if err != nil {
				return err
			}
			defer cursors.Close()

			if len(args) == 1 {
				_, t, err := resolveTrigger(cfg, args[0])
				if err != nil {
					return err
				}
				c, found, err := cursors.Get(t.ID())
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no cursor stored for trigger %q", t.Name)
				}
				return printJSON(cursorEntry{TriggerID: t.ID(), Trigger: t.Name, Cursor: c})
			}

			// Map stored ids back to names; ids of removed triggers stay unnamed.
			names := make(map[string]string, len(cfg.Triggers))
			for _, tc := range cfg.Triggers {
				if t, err := poller.TriggerFromConfig(tc, cfg.Bitcoin); err == nil {
					names[t.ID()] = t.Name
				}
			}
			all, err := cursors.List()
			if err != nil {
				return err
			}
			entries := make([]cursorEntry, 0, len(all))
			for id, c := range all {
				entries = append(entries, cursorEntry{TriggerID: id, Trigger: names[id], Cursor: c})
			}
			return printJSON(entries)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset <trigger>",
		Short: "Delete a trigger's cursor so the next cycle captures a new baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			_, t, err := resolveTrigger(cfg, args[0])
			if err != nil {
				return err
			}
			cursors, err := openCursorStore(cfg)
			if err != nil {
				return err
			}
			defer cursors.Close()

			if err := cursors.Delete(t.ID()); err != nil {
				return err
			}
			logger.Info("Cursor reset", "trigger", t.Name, "trigger_id", t.ID())
			return nil
		},
	})
	return cmd
}

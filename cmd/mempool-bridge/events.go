package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/fystack/mempool-bridge/pkg/events"
	"github.com/fystack/mempool-bridge/pkg/infra"
	"github.com/spf13/cobra"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published trigger events",
	}

	var kind string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print new events from the stream until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			if !cfg.NATS.Enabled {
				return errors.New("nats is disabled in config")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			queue, nc, err := connectQueue(ctx, cfg)
			if err != nil {
				return err
			}
			defer nc.Close()
			defer queue.Close()

			filter := cfg.NATS.SubjectPrefix + ".>"
			if kind != "" {
				filter = events.Subject(cfg.NATS.SubjectPrefix, kind)
			}
			logger.Info("Tailing events", "stream", cfg.NATS.Stream, "subject", filter)

			return queue.Dequeue(ctx, filter, func(subject string, message []byte) error {
				env, err := events.Decode(message)
				if err != nil {
					return fmt.Errorf("%w: %v", infra.ErrPermament, err)
				}
				fmt.Printf("[%s] %s trigger=%s network=%s %s\n",
					subject, env.Type, env.Trigger, env.Network, string(env.Raw))
				return nil
			})
		},
	}
	tail.Flags().StringVar(&kind, "kind", "", "only show one event kind, e.g. newBlock or error")
	cmd.AddCommand(tail)
	return cmd
}

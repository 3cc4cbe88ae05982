package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/internal/worker"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll every configured trigger on its schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, os.Stdout)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, err := newMempoolClient(cfg)
			if err != nil {
				return err
			}
			if !api.IsHealthy(ctx) {
				logger.Warn("Explorer API not reachable, triggers will retry on schedule", "url", api.GetURL())
			}

			cursors, err := openCursorStore(cfg)
			if err != nil {
				return err
			}
			emitter, closeEmitter, err := newEmitter(ctx, cfg)
			if err != nil {
				_ = cursors.Close()
				return err
			}

			runner := poller.NewRunner(poller.NewEngine(api, cfg.Bitcoin.ChainParams()), cursors, emitter)
			workers, err := worker.BuildWorkers(ctx, cfg, runner, emitter, only...)
			if err == nil && len(workers) == 0 {
				err = errors.New("no triggers configured")
			}
			if err != nil {
				_ = closeEmitter()
				_ = cursors.Close()
				return err
			}

			manager := worker.NewManager()
			manager.AddWorkers(workers...)
			manager.OnStop("emitter", closeEmitter)
			manager.OnStop("cursor store", cursors.Close)
			manager.Start()

			logger.Info("mempool-bridge is running... Press Ctrl+C to stop",
				"triggers", manager.Len(),
				"url", api.GetURL(),
			)
			<-ctx.Done()
			manager.Stop()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&only, "trigger", nil, "run only the named triggers")
	return cmd
}

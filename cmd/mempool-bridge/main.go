package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "mempool-bridge",
		Short:         "Bitcoin explorer (Mempool.space / Esplora) operations and polling triggers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "configs/config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logs")

	root.AddCommand(
		newRunCmd(opts),
		newPollCmd(opts),
		newCallCmd(opts),
		newCursorCmd(opts),
		newEventsCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

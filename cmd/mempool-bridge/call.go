package main

import (
	"fmt"
	"os"

	"github.com/fystack/mempool-bridge/internal/dispatcher"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCallCmd(opts *rootOptions) *cobra.Command {
	var (
		p              dispatcher.Params
		height         int64
		itemsFile      string
		continueOnFail bool
		list           bool
	)
	cmd := &cobra.Command{
		Use:   "call <resource> <operation>",
		Short: "Execute one explorer operation and print the records as JSON",
		Example: `  mempool-bridge call address getBalance --address bc1q...
  mempool-bridge call block getByHeight --height 840000
  mempool-bridge call transaction getStatus --items txids.yaml --continue-on-fail`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, op := range dispatcher.Operations() {
					fmt.Println(op.String())
				}
				return nil
			}

			cfg, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			api, err := newMempoolClient(cfg)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("height") {
				p.BlockHeight = &height
			}
			items := []dispatcher.Params{p}
			if itemsFile != "" {
				if items, err = readItems(itemsFile); err != nil {
					return err
				}
			}

			d := dispatcher.New(api, cfg.Bitcoin.ChainParams(), cfg.Bitcoin.Provider)
			out, err := d.Execute(cmd.Context(), dispatcher.Request{
				Resource:       enum.Resource(args[0]),
				Operation:      enum.Operation(args[1]),
				ContinueOnFail: continueOnFail,
			}, items)
			if len(out) > 0 {
				if perr := printJSON(out); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Address, "address", "", "bitcoin address")
	f.StringVar(&p.TxID, "txid", "", "transaction id")
	f.StringVar(&p.BlockHash, "block-hash", "", "block hash")
	f.Int64Var(&height, "height", 0, "block height")
	f.StringVar(&p.RawTx, "raw-tx", "", "signed raw transaction hex for broadcast")
	f.StringVar(&p.LastSeenTxID, "last-seen-txid", "", "continue address history after this txid")
	f.IntVar(&p.StartIndex, "start-index", 0, "block transaction page offset, multiple of 25")
	f.StringVar(&itemsFile, "items", "", "YAML or JSON file with a list of parameter sets, one per item")
	f.BoolVar(&continueOnFail, "continue-on-fail", false, "emit {error} records for failing items instead of stopping")
	f.BoolVar(&list, "list", false, "list supported operations")
	return cmd
}

// readItems parses a list of parameter sets. JSON input is accepted since it
// is valid YAML.
func readItems(path string) ([]dispatcher.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []dispatcher.Params
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode items %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("items file %s is empty", path)
	}
	return items, nil
}

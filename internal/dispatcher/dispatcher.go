package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/fystack/mempool-bridge/pkg/common/utils"
)

// Params carries the per-item inputs. Only the fields an operation
// declares are read.
type Params struct {
	Address      string `json:"address,omitempty"      yaml:"address"`
	TxID         string `json:"txid,omitempty"         yaml:"txid"`
	BlockHash    string `json:"blockHash,omitempty"    yaml:"blockHash"`
	BlockHeight  *int64 `json:"blockHeight,omitempty"  yaml:"blockHeight"`
	RawTx        string `json:"rawTx,omitempty"        yaml:"rawTx"`
	LastSeenTxID string `json:"lastSeenTxid,omitempty" yaml:"lastSeenTxid"`
	StartIndex   int    `json:"startIndex,omitempty"   yaml:"startIndex"`
}

type Request struct {
	Resource  enum.Resource
	Operation enum.Operation
	// ContinueOnFail turns item failures into {"error": ...} records.
	ContinueOnFail bool
}

// Record is one JSON-compatible output object.
type Record map[string]any

type Dispatcher struct {
	api      mempool.MempoolAPI
	params   *chaincfg.Params
	provider enum.Provider
	logger   *slog.Logger
}

func New(api mempool.MempoolAPI, params *chaincfg.Params, provider enum.Provider) *Dispatcher {
	return &Dispatcher{
		api:      api,
		params:   params,
		provider: provider,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// Execute runs req once per item, in order. In permissive mode a failing
// item yields an error record and the batch continues; otherwise the batch
// stops with an *ItemError.
func (d *Dispatcher) Execute(ctx context.Context, req Request, items []Params) ([]Record, error) {
	h, ok := lookup(req.Resource, req.Operation)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, req.Resource, req.Operation)
	}
	if h.needs&needMempoolFees != 0 && !d.provider.HasMempoolFees() {
		return nil, fmt.Errorf("%w: %s.%s is not served by provider %s",
			ErrUnsupportedOperation, req.Resource, req.Operation, d.provider)
	}

	out := make([]Record, 0, len(items))
	for i, p := range items {
		rec, err := d.run(ctx, h, p)
		if err != nil {
			if !req.ContinueOnFail {
				return out, &ItemError{Index: i, Err: err}
			}
			d.logger.Warn("Item failed", "resource", req.Resource, "operation", req.Operation, "item", i, "err", err)
			out = append(out, Record{"error": err.Error()})
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (d *Dispatcher) run(ctx context.Context, h handler, p Params) (Record, error) {
	if err := d.validate(h.needs, p); err != nil {
		return nil, err
	}
	return h.fn(ctx, d, p)
}

func (d *Dispatcher) validate(needs need, p Params) error {
	if needs&needAddress != 0 {
		if err := utils.ValidateAddress(p.Address, d.params); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
	}
	if needs&needTxID != 0 {
		if err := utils.ValidateHash(p.TxID); err != nil {
			return fmt.Errorf("%w: txid: %v", ErrInvalidParam, err)
		}
	}
	if needs&needBlockHash != 0 {
		if err := utils.ValidateHash(p.BlockHash); err != nil {
			return fmt.Errorf("%w: block hash: %v", ErrInvalidParam, err)
		}
	}
	if needs&needBlockHeight != 0 {
		if p.BlockHeight == nil {
			return invalidParam("block height is required")
		}
		if *p.BlockHeight < 0 {
			return invalidParam("block height must not be negative, got %d", *p.BlockHeight)
		}
	}
	if needs&needRawTx != 0 {
		if _, err := utils.DecodeRawTx(p.RawTx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
	}
	if p.LastSeenTxID != "" {
		if err := utils.ValidateHash(p.LastSeenTxID); err != nil {
			return fmt.Errorf("%w: last seen txid: %v", ErrInvalidParam, err)
		}
	}
	if p.StartIndex < 0 {
		return invalidParam("start index must not be negative")
	}
	return nil
}

// Operation names one supported (resource, operation) pair.
type Operation struct {
	Resource  enum.Resource
	Operation enum.Operation
}

func (o Operation) String() string {
	return string(o.Resource) + "." + string(o.Operation)
}

// Operations lists the supported pairs sorted by resource then operation.
func Operations() []Operation {
	ops := make([]Operation, 0, len(table))
	for k := range table {
		ops = append(ops, Operation{Resource: k.resource, Operation: k.operation})
	}
	slices.SortFunc(ops, func(a, b Operation) int {
		return strings.Compare(a.String(), b.String())
	})
	return ops
}

// Supports reports whether the pair is in the table.
func Supports(resource enum.Resource, operation enum.Operation) bool {
	_, ok := lookup(resource, operation)
	return ok
}

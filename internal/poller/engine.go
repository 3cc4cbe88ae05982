package poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
)

// Source is the remote state the engine diffs against.
type Source interface {
	GetTipHeight(ctx context.Context) (int64, error)
	BlockByHeight(ctx context.Context, height int64) (*mempool.Block, error)
	GetAddressTransactions(ctx context.Context, address, lastSeenTxid string) ([]mempool.Transaction, error)
	Confirmations(ctx context.Context, txid string) (*mempool.ConfirmationInfo, error)
	GetRecommendedFees(ctx context.Context) (*mempool.RecommendedFees, error)
}

// Engine computes one poll cycle. It never persists anything: the caller
// owns the cursor and commits the returned value.
type Engine struct {
	source Source
	params *chaincfg.Params
	logger *slog.Logger
}

func NewEngine(source Source, params *chaincfg.Params) *Engine {
	return &Engine{
		source: source,
		params: params,
		logger: logger.With(slog.String("component", "poller")),
	}
}

// Poll fetches just enough remote state for t, compares it against cursor
// and returns the events to emit plus the next cursor. On error the
// returned cursor equals the input.
func (e *Engine) Poll(ctx context.Context, t Trigger, cursor Cursor) ([]Event, Cursor, error) {
	if err := t.Validate(e.params); err != nil {
		return nil, cursor, pollError(t, err)
	}

	var (
		events []Event
		next   Cursor
		err    error
	)
	switch t.Event {
	case enum.EventNewBlock:
		events, next, err = e.pollNewBlocks(ctx, t, cursor)
	case enum.EventAddressTransaction:
		events, next, err = e.pollAddress(ctx, t, cursor)
	case enum.EventTransactionConfirmed:
		events, next, err = e.pollConfirmation(ctx, t, cursor)
	case enum.EventFeeRateChange:
		events, next, err = e.pollFeeRate(ctx, t, cursor)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, t.Event)
	}
	if err != nil {
		return nil, cursor, pollError(t, err)
	}
	return events, next, nil
}

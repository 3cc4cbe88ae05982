package poller

import (
	"context"
	"fmt"
	"log/slog"
)

func (e *Engine) pollNewBlocks(ctx context.Context, t Trigger, cursor Cursor) ([]Event, Cursor, error) {
	tip, err := e.source.GetTipHeight(ctx)
	if err != nil {
		return nil, cursor, err
	}

	next := cursor
	if cursor.LastBlockHeight == nil {
		next.LastBlockHeight = ptr(tip)
		e.logger.Info("Captured block baseline", "trigger", t.Name, "height", tip)
		return nil, next, nil
	}

	last := *cursor.LastBlockHeight
	if tip <= last {
		if tip < last {
			e.logger.Warn("Upstream tip is behind cursor", "trigger", t.Name, "tip", tip, "cursor", last)
		}
		return nil, cursor, nil
	}

	from := last + 1
	if t.MaxCatchupBlocks > 0 && tip-last > t.MaxCatchupBlocks {
		skipFrom, skipTo := from, tip-t.MaxCatchupBlocks
		from = skipTo + 1
		e.logger.Warn("Catchup range exceeds limit, skipping oldest heights",
			"trigger", t.Name, "from", skipFrom, "to", skipTo, "limit", t.MaxCatchupBlocks)
	}

	events := make([]Event, 0, tip-from+1)
	for h := from; h <= tip; h++ {
		block, err := e.source.BlockByHeight(ctx, h)
		if err != nil {
			// A cancelled cycle must not advance past heights it never saw.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, cursor, fmt.Errorf("fetch block %d: %w", h, ctxErr)
			}
			e.logger.Warn("Skipping block", slog.String("trigger", t.Name), slog.Int64("height", h), slog.Any("err", err))
			continue
		}
		events = append(events, newBlockEvent(block))
	}

	next.LastBlockHeight = ptr(tip)
	return events, next, nil
}

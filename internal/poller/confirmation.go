package poller

import (
	"context"

	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

func (e *Engine) pollConfirmation(ctx context.Context, t Trigger, cursor Cursor) ([]Event, Cursor, error) {
	info, err := e.source.Confirmations(ctx, t.TxID)
	if err != nil {
		return nil, cursor, err
	}
	if !info.Status.Confirmed || cursor.Triggered {
		return nil, cursor, nil
	}

	confirmations := info.Confirmations
	next := cursor
	next.LastConfirmationCount = ptr(confirmations)

	reached := confirmations >= t.RequiredConfirmations
	if cursor.LastConfirmationCount != nil && confirmations == *cursor.LastConfirmationCount {
		reached = false
	}
	if !reached {
		return nil, next, nil
	}

	next.Triggered = true
	ev := TransactionConfirmedEvent{
		Event:         enum.EventTransactionConfirmed,
		TxID:          t.TxID,
		Confirmations: confirmations,
	}
	if info.Status.BlockHash != nil {
		ev.BlockHash = *info.Status.BlockHash
	}
	if info.Status.BlockHeight != nil {
		ev.BlockHeight = *info.Status.BlockHeight
	}
	e.logger.Info("Confirmation threshold reached", "trigger", t.Name, "txid", t.TxID, "confirmations", confirmations)
	return []Event{ev}, next, nil
}

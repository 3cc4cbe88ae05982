package poller

import (
	"context"
	"slices"

	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

func (e *Engine) pollAddress(ctx context.Context, t Trigger, cursor Cursor) ([]Event, Cursor, error) {
	txs, err := e.source.GetAddressTransactions(ctx, t.Address, "")
	if err != nil {
		return nil, cursor, err
	}
	if len(txs) == 0 {
		return nil, cursor, nil
	}

	next := cursor
	newest := txs[0].TxID
	if cursor.LastSeenTransactionID == nil {
		next.LastSeenTransactionID = ptr(newest)
		e.logger.Info("Captured address baseline", "trigger", t.Name, "address", t.Address, "txid", newest)
		return nil, next, nil
	}

	lastSeen := *cursor.LastSeenTransactionID
	var events []Event
	for i := range txs {
		tx := &txs[i]
		if tx.TxID == lastSeen {
			break
		}
		ev := addressEvent(t.Address, tx)
		if !t.IncludeUnconfirmed && !ev.Confirmed {
			continue
		}
		if t.Direction == enum.DirectionIncoming && !ev.Incoming {
			continue
		}
		if t.Direction == enum.DirectionOutgoing && !ev.Outgoing {
			continue
		}
		events = append(events, ev)
	}
	slices.Reverse(events)

	next.LastSeenTransactionID = ptr(newest)
	return events, next, nil
}

// addressEvent classifies tx relative to address. Incoming means paid to
// address without spending from it; outgoing means spending from it. The
// two flags are independent.
func addressEvent(address string, tx *mempool.Transaction) AddressTransactionEvent {
	inputs := tx.InputAddresses()
	outputs := tx.OutputAddresses()
	spends := slices.Contains(inputs, address)

	received := tx.ReceivedBy(address)
	sent := tx.SentBy(address)

	ev := AddressTransactionEvent{
		Event:            enum.EventAddressTransaction,
		Address:          address,
		TxID:             tx.TxID,
		Confirmed:        tx.Status.Confirmed,
		Fee:              tx.Fee,
		Incoming:         slices.Contains(outputs, address) && !spends,
		Outgoing:         spends,
		ReceivedSatoshis: received,
		ReceivedBTC:      mempool.BTC(received),
		SentSatoshis:     sent,
		SentBTC:          mempool.BTC(sent),
	}
	if tx.Status.Confirmed {
		ev.BlockHeight = tx.Status.BlockHeight
		ev.BlockTime = tx.Status.BlockTime
	}
	return ev
}

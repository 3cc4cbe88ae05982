package dispatcher

import (
	"context"
	"strings"

	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
)

func transactionGet(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	tx, err := d.api.GetTransaction(ctx, p.TxID)
	if err != nil {
		return nil, err
	}
	return Record{
		"txid":                  tx.TxID,
		"version":               tx.Version,
		"locktime":              tx.Locktime,
		"size":                  tx.Size,
		"weight":                tx.Weight,
		"fee":                   tx.Fee,
		"fee_rate":              mempool.FeeRate(tx.Fee, tx.Weight),
		"confirmed":             tx.Status.Confirmed,
		"block_height":          tx.Status.BlockHeight,
		"block_hash":            tx.Status.BlockHash,
		"block_time":            tx.Status.BlockTime,
		"input_count":           len(tx.Vin),
		"output_count":          len(tx.Vout),
		"input_value_satoshis":  tx.InputValue(),
		"output_value_satoshis": tx.OutputValue(),
	}, nil
}

func transactionStatus(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	info, err := d.api.Confirmations(ctx, p.TxID)
	if err != nil {
		return nil, err
	}
	return Record{
		"txid":          p.TxID,
		"confirmed":     info.Status.Confirmed,
		"block_height":  info.Status.BlockHeight,
		"block_hash":    info.Status.BlockHash,
		"block_time":    info.Status.BlockTime,
		"confirmations": info.Confirmations,
	}, nil
}

func transactionConfirmations(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	info, err := d.api.Confirmations(ctx, p.TxID)
	if err != nil {
		return nil, err
	}
	return Record{
		"txid":          p.TxID,
		"confirmed":     info.Status.Confirmed,
		"confirmations": info.Confirmations,
		"tip_height":    info.TipHeight,
		"block_height":  info.Status.BlockHeight,
	}, nil
}

func transactionHex(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	hex, err := d.api.GetTransactionHex(ctx, p.TxID)
	if err != nil {
		return nil, err
	}
	return Record{"txid": p.TxID, "hex": hex}, nil
}

func transactionOutspends(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	outspends, err := d.api.GetOutspends(ctx, p.TxID)
	if err != nil {
		return nil, err
	}
	spent := 0
	for _, o := range outspends {
		if o.Spent {
			spent++
		}
	}
	return Record{
		"txid":         p.TxID,
		"output_count": len(outspends),
		"spent_count":  spent,
		"outspends":    outspends,
	}, nil
}

func transactionBroadcast(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	txid, err := d.api.BroadcastTransaction(ctx, strings.TrimSpace(p.RawTx))
	if err != nil {
		return nil, err
	}
	return Record{
		"txid":      txid,
		"broadcast": true,
		"message":   "Transaction broadcast successfully",
	}, nil
}

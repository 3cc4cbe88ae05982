package dispatcher

import (
	"context"

	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/constant"
)

func addressInfo(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	info, err := d.api.GetAddress(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	chain := info.ChainStats
	return Record{
		"address":                 info.Address,
		"chain_stats":             chain,
		"mempool_stats":           info.MempoolStats,
		"total_received_satoshis": chain.FundedTxoSum,
		"total_received_btc":      mempool.BTC(chain.FundedTxoSum),
		"total_sent_satoshis":     chain.SpentTxoSum,
		"total_sent_btc":          mempool.BTC(chain.SpentTxoSum),
		"balance_satoshis":        chain.Balance(),
		"balance_btc":             mempool.BTC(chain.Balance()),
		"tx_count":                chain.TxCount,
	}, nil
}

func addressBalance(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	info, err := d.api.GetAddress(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	confirmed := info.ChainStats.Balance()
	unconfirmed := info.MempoolStats.Balance()
	return Record{
		"address":              p.Address,
		"confirmed_satoshis":   confirmed,
		"confirmed_btc":        mempool.BTC(confirmed),
		"unconfirmed_satoshis": unconfirmed,
		"unconfirmed_btc":      mempool.BTC(unconfirmed),
		"total_satoshis":       confirmed + unconfirmed,
		"total_btc":            mempool.BTC(confirmed + unconfirmed),
	}, nil
}

func addressUTXOs(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	utxos, err := d.api.GetAddressUTXOs(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	var total int64
	items := make([]Record, 0, len(utxos))
	for _, u := range utxos {
		total += u.Value
		items = append(items, Record{
			"txid":           u.TxID,
			"vout":           u.Vout,
			"value_satoshis": u.Value,
			"value_btc":      mempool.BTC(u.Value),
			"confirmed":      u.Status.Confirmed,
			"block_height":   u.Status.BlockHeight,
		})
	}
	return Record{
		"address":              p.Address,
		"utxo_count":           len(utxos),
		"utxos":                items,
		"total_value_satoshis": total,
		"total_value_btc":      mempool.BTC(total),
	}, nil
}

func addressTransactions(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	txs, err := d.api.GetAddressTransactions(ctx, p.Address, p.LastSeenTxID)
	if err != nil {
		return nil, err
	}
	rec := Record{
		"address":           p.Address,
		"transaction_count": len(txs),
		"transactions":      summarizeTransactions(txs, constant.AddressTxsPageSize),
	}
	// The id to pass as lastSeenTxid for the next confirmed page.
	if n := len(txs); n > 0 && txs[n-1].Status.Confirmed {
		rec["last_txid"] = txs[n-1].TxID
	}
	return rec, nil
}

func addressMempoolTransactions(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	txs, err := d.api.GetAddressMempoolTransactions(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	return Record{
		"address":           p.Address,
		"transaction_count": len(txs),
		"transactions":      summarizeTransactions(txs, 0),
	}, nil
}

// summarizeTransactions keeps at most limit entries; 0 keeps all.
func summarizeTransactions(txs []mempool.Transaction, limit int) []Record {
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	out := make([]Record, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Record{
			"txid":         tx.TxID,
			"confirmed":    tx.Status.Confirmed,
			"block_height": tx.Status.BlockHeight,
			"block_time":   tx.Status.BlockTime,
			"fee":          tx.Fee,
			"size":         tx.Size,
			"weight":       tx.Weight,
		})
	}
	return out
}

package dispatcher

import "context"

func mempoolInfo(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	info, err := d.api.GetMempoolInfo(ctx)
	if err != nil {
		return nil, err
	}
	return Record{
		"count":         info.Count,
		"vsize":         info.VSize,
		"total_fee":     info.TotalFee,
		"fee_histogram": info.FeeHistogram,
	}, nil
}

func mempoolTxids(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	txids, err := d.api.GetMempoolTxids(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"count": len(txids), "txids": txids}, nil
}

func mempoolRecent(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	recent, err := d.api.GetMempoolRecent(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"count": len(recent), "transactions": recent}, nil
}

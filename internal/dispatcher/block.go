package dispatcher

import (
	"context"

	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
)

func blockSummary(b *mempool.Block) Record {
	return Record{
		"height":              b.Height,
		"hash":                b.ID,
		"timestamp":           b.Timestamp,
		"tx_count":            b.TxCount,
		"size":                b.Size,
		"weight":              b.Weight,
		"difficulty":          b.Difficulty,
		"merkle_root":         b.MerkleRoot,
		"previous_block_hash": b.PreviousBlockHash,
	}
}

func blockGet(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	block, err := d.api.GetBlock(ctx, p.BlockHash)
	if err != nil {
		return nil, err
	}
	return blockSummary(block), nil
}

func blockByHeight(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	block, err := d.api.BlockByHeight(ctx, *p.BlockHeight)
	if err != nil {
		return nil, err
	}
	return blockSummary(block), nil
}

func blockLatest(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	block, err := d.api.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}
	rec := blockSummary(block)
	rec["nonce"] = block.Nonce
	rec["bits"] = block.Bits
	rec["version"] = block.Version
	return rec, nil
}

func blockStatus(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	status, err := d.api.GetBlockStatus(ctx, p.BlockHash)
	if err != nil {
		return nil, err
	}
	rec := Record{
		"hash":          p.BlockHash,
		"in_best_chain": status.InBestChain,
		"height":        status.Height,
		"next_best":     nil,
	}
	if status.NextBest != "" {
		rec["next_best"] = status.NextBest
	}
	return rec, nil
}

func blockTxids(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	txids, err := d.api.GetBlockTxids(ctx, p.BlockHash)
	if err != nil {
		return nil, err
	}
	return Record{"hash": p.BlockHash, "count": len(txids), "txids": txids}, nil
}

func blockTransactions(ctx context.Context, d *Dispatcher, p Params) (Record, error) {
	if p.StartIndex%25 != 0 {
		return nil, invalidParam("start index must be a multiple of 25, got %d", p.StartIndex)
	}
	txs, err := d.api.GetBlockTransactions(ctx, p.BlockHash, p.StartIndex)
	if err != nil {
		return nil, err
	}
	return Record{
		"hash":              p.BlockHash,
		"start_index":       p.StartIndex,
		"transaction_count": len(txs),
		"transactions":      summarizeTransactions(txs, 0),
	}, nil
}

func blockLatestHash(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	hash, err := d.api.GetTipHash(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"hash": hash}, nil
}

func blockLatestHeight(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	height, err := d.api.GetTipHeight(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"height": height}, nil
}

package mempool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BlockByHeight resolves height to a hash and fetches the block.
func (c *MempoolClient) BlockByHeight(ctx context.Context, height int64) (*Block, error) {
	hash, err := c.GetBlockHash(ctx, height)
	if err != nil {
		return nil, err
	}
	block, err := c.GetBlock(ctx, hash)
	if err != nil {
		return nil, err
	}
	return block, nil
}

// LatestBlock is tip height -> hash -> block.
func (c *MempoolClient) LatestBlock(ctx context.Context) (*Block, error) {
	height, err := c.GetTipHeight(ctx)
	if err != nil {
		return nil, err
	}
	return c.BlockByHeight(ctx, height)
}

// Confirmations fetches the tip height and the transaction status
// concurrently and combines them. Unconfirmed transactions report 0.
func (c *MempoolClient) Confirmations(ctx context.Context, txid string) (*ConfirmationInfo, error) {
	var (
		tip    int64
		status *TxStatus
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tip, err = c.GetTipHeight(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = c.GetTransactionStatus(gctx, txid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info := &ConfirmationInfo{TxID: txid, TipHeight: tip, Status: *status}
	if status.Confirmed {
		if status.BlockHeight == nil {
			return nil, fmt.Errorf("tx %s confirmed without block height", txid)
		}
		info.Confirmations = ConfirmationCount(tip, *status.BlockHeight)
	}
	return info, nil
}

// ConfirmationCount is tip - blockHeight + 1.
func ConfirmationCount(tipHeight, blockHeight int64) int64 {
	return tipHeight - blockHeight + 1
}

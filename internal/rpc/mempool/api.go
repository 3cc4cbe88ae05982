package mempool

import (
	"context"

	"github.com/fystack/mempool-bridge/internal/rpc"
)

// MempoolAPI is the Esplora / mempool.space REST surface used by the bridge.
type MempoolAPI interface {
	rpc.Gateway

	// Chain tip
	GetTipHeight(ctx context.Context) (int64, error)
	GetTipHash(ctx context.Context) (string, error)

	// Blocks
	GetBlockHash(ctx context.Context, height int64) (string, error)
	GetBlock(ctx context.Context, hash string) (*Block, error)
	GetBlockStatus(ctx context.Context, hash string) (*BlockStatus, error)
	GetBlockTxids(ctx context.Context, hash string) ([]string, error)
	GetBlockTransactions(ctx context.Context, hash string, start int) ([]Transaction, error)

	// Transactions
	GetTransaction(ctx context.Context, txid string) (*Transaction, error)
	GetTransactionStatus(ctx context.Context, txid string) (*TxStatus, error)
	GetTransactionHex(ctx context.Context, txid string) (string, error)
	GetOutspends(ctx context.Context, txid string) ([]Outspend, error)
	BroadcastTransaction(ctx context.Context, rawTx string) (string, error)

	// Addresses
	GetAddress(ctx context.Context, address string) (*AddressInfo, error)
	GetAddressUTXOs(ctx context.Context, address string) ([]UTXO, error)
	GetAddressTransactions(ctx context.Context, address, lastSeenTxid string) ([]Transaction, error)
	GetAddressMempoolTransactions(ctx context.Context, address string) ([]Transaction, error)

	// Mempool
	GetMempoolInfo(ctx context.Context) (*MempoolInfo, error)
	GetMempoolTxids(ctx context.Context) ([]string, error)
	GetMempoolRecent(ctx context.Context) ([]MempoolRecent, error)

	// Fees
	GetRecommendedFees(ctx context.Context) (*RecommendedFees, error)
	GetMempoolBlocks(ctx context.Context) ([]MempoolBlock, error)
	GetFeeEstimates(ctx context.Context) (FeeEstimates, error)

	// Dependent call sequences
	LatestBlock(ctx context.Context) (*Block, error)
	BlockByHeight(ctx context.Context, height int64) (*Block, error)
	Confirmations(ctx context.Context, txid string) (*ConfirmationInfo, error)
}

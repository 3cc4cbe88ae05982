package dispatcher

import (
	"context"

	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

type need uint8

const (
	needAddress need = 1 << iota
	needTxID
	needBlockHash
	needBlockHeight
	needRawTx
	// served by mempool.space only, not plain Esplora
	needMempoolFees
)

type handlerFunc func(ctx context.Context, d *Dispatcher, p Params) (Record, error)

type handler struct {
	needs need
	fn    handlerFunc
}

type opKey struct {
	resource  enum.Resource
	operation enum.Operation
}

var table = map[opKey]handler{
	{enum.ResourceAddress, enum.OpGetInfo}:                {needAddress, addressInfo},
	{enum.ResourceAddress, enum.OpGetBalance}:             {needAddress, addressBalance},
	{enum.ResourceAddress, enum.OpGetUtxos}:               {needAddress, addressUTXOs},
	{enum.ResourceAddress, enum.OpGetTransactions}:        {needAddress, addressTransactions},
	{enum.ResourceAddress, enum.OpGetMempoolTransactions}: {needAddress, addressMempoolTransactions},

	{enum.ResourceTransaction, enum.OpGet}:              {needTxID, transactionGet},
	{enum.ResourceTransaction, enum.OpGetStatus}:        {needTxID, transactionStatus},
	{enum.ResourceTransaction, enum.OpGetConfirmations}: {needTxID, transactionConfirmations},
	{enum.ResourceTransaction, enum.OpGetHex}:           {needTxID, transactionHex},
	{enum.ResourceTransaction, enum.OpGetOutspends}:     {needTxID, transactionOutspends},
	{enum.ResourceTransaction, enum.OpBroadcast}:        {needRawTx, transactionBroadcast},

	{enum.ResourceBlock, enum.OpGet}:             {needBlockHash, blockGet},
	{enum.ResourceBlock, enum.OpGetByHeight}:     {needBlockHeight, blockByHeight},
	{enum.ResourceBlock, enum.OpGetLatest}:       {0, blockLatest},
	{enum.ResourceBlock, enum.OpGetStatus}:       {needBlockHash, blockStatus},
	{enum.ResourceBlock, enum.OpGetTxids}:        {needBlockHash, blockTxids},
	{enum.ResourceBlock, enum.OpGetTransactions}: {needBlockHash, blockTransactions},
	{enum.ResourceBlock, enum.OpGetLatestHash}:   {0, blockLatestHash},
	{enum.ResourceBlock, enum.OpGetLatestHeight}: {0, blockLatestHeight},

	{enum.ResourceMempool, enum.OpGetInfo}:   {0, mempoolInfo},
	{enum.ResourceMempool, enum.OpGetTxids}:  {0, mempoolTxids},
	{enum.ResourceMempool, enum.OpGetRecent}: {0, mempoolRecent},

	{enum.ResourceFee, enum.OpGetRecommended}:   {needMempoolFees, feeRecommended},
	{enum.ResourceFee, enum.OpGetMempoolBlocks}: {needMempoolFees, feeMempoolBlocks},
	{enum.ResourceFee, enum.OpGetEstimates}:     {0, feeEstimates},
}

func lookup(resource enum.Resource, operation enum.Operation) (handler, bool) {
	h, ok := table[opKey{resource, operation}]
	return h, ok
}

package mempool

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fystack/mempool-bridge/internal/rpc"
)

var _ MempoolAPI = (*MempoolClient)(nil)

// MempoolClient implements MempoolAPI over the shared REST gateway.
type MempoolClient struct {
	*rpc.Client
}

func NewMempoolClient(baseURL string, opts rpc.ClientOptions) *MempoolClient {
	return &MempoolClient{Client: rpc.NewClient(baseURL, opts)}
}

func seg(s string) string {
	return url.PathEscape(s)
}

func (c *MempoolClient) GetTipHeight(ctx context.Context) (int64, error) {
	text, err := c.GetText(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, fmt.Errorf("get tip height: %w", err)
	}
	height, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse tip height %q: %w", text, err)
	}
	return height, nil
}

func (c *MempoolClient) GetTipHash(ctx context.Context) (string, error) {
	hash, err := c.GetText(ctx, "/blocks/tip/hash")
	if err != nil {
		return "", fmt.Errorf("get tip hash: %w", err)
	}
	return hash, nil
}

func (c *MempoolClient) GetBlockHash(ctx context.Context, height int64) (string, error) {
	hash, err := c.GetText(ctx, fmt.Sprintf("/block-height/%d", height))
	if err != nil {
		return "", fmt.Errorf("get block hash at %d: %w", height, err)
	}
	return hash, nil
}

func (c *MempoolClient) GetBlock(ctx context.Context, hash string) (*Block, error) {
	var block Block
	if err := c.GetJSON(ctx, "/block/"+seg(hash), &block); err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	return &block, nil
}

func (c *MempoolClient) GetBlockStatus(ctx context.Context, hash string) (*BlockStatus, error) {
	var status BlockStatus
	if err := c.GetJSON(ctx, "/block/"+seg(hash)+"/status", &status); err != nil {
		return nil, fmt.Errorf("get block status %s: %w", hash, err)
	}
	return &status, nil
}

func (c *MempoolClient) GetBlockTxids(ctx context.Context, hash string) ([]string, error) {
	var txids []string
	if err := c.GetJSON(ctx, "/block/"+seg(hash)+"/txids", &txids); err != nil {
		return nil, fmt.Errorf("get block txids %s: %w", hash, err)
	}
	return txids, nil
}

// GetBlockTransactions returns one page of transactions starting at index
// start. Upstream requires start to be a multiple of 25.
func (c *MempoolClient) GetBlockTransactions(ctx context.Context, hash string, start int) ([]Transaction, error) {
	endpoint := "/block/" + seg(hash) + "/txs"
	if start > 0 {
		endpoint += "/" + strconv.Itoa(start)
	}
	var txs []Transaction
	if err := c.GetJSON(ctx, endpoint, &txs); err != nil {
		return nil, fmt.Errorf("get block txs %s: %w", hash, err)
	}
	return txs, nil
}

func (c *MempoolClient) GetTransaction(ctx context.Context, txid string) (*Transaction, error) {
	var tx Transaction
	if err := c.GetJSON(ctx, "/tx/"+seg(txid), &tx); err != nil {
		return nil, fmt.Errorf("get tx %s: %w", txid, err)
	}
	return &tx, nil
}

func (c *MempoolClient) GetTransactionStatus(ctx context.Context, txid string) (*TxStatus, error) {
	var status TxStatus
	if err := c.GetJSON(ctx, "/tx/"+seg(txid)+"/status", &status); err != nil {
		return nil, fmt.Errorf("get tx status %s: %w", txid, err)
	}
	return &status, nil
}

func (c *MempoolClient) GetTransactionHex(ctx context.Context, txid string) (string, error) {
	hex, err := c.GetText(ctx, "/tx/"+seg(txid)+"/hex")
	if err != nil {
		return "", fmt.Errorf("get tx hex %s: %w", txid, err)
	}
	return hex, nil
}

func (c *MempoolClient) GetOutspends(ctx context.Context, txid string) ([]Outspend, error) {
	var outspends []Outspend
	if err := c.GetJSON(ctx, "/tx/"+seg(txid)+"/outspends", &outspends); err != nil {
		return nil, fmt.Errorf("get outspends %s: %w", txid, err)
	}
	return outspends, nil
}

// BroadcastTransaction posts a raw transaction hex and returns the txid.
func (c *MempoolClient) BroadcastTransaction(ctx context.Context, rawTx string) (string, error) {
	txid, err := c.PostText(ctx, "/tx", rawTx)
	if err != nil {
		return "", fmt.Errorf("broadcast tx: %w", err)
	}
	return txid, nil
}

func (c *MempoolClient) GetAddress(ctx context.Context, address string) (*AddressInfo, error) {
	var info AddressInfo
	if err := c.GetJSON(ctx, "/address/"+seg(address), &info); err != nil {
		return nil, fmt.Errorf("get address %s: %w", address, err)
	}
	return &info, nil
}

func (c *MempoolClient) GetAddressUTXOs(ctx context.Context, address string) ([]UTXO, error) {
	var utxos []UTXO
	if err := c.GetJSON(ctx, "/address/"+seg(address)+"/utxo", &utxos); err != nil {
		return nil, fmt.Errorf("get address utxos %s: %w", address, err)
	}
	return utxos, nil
}

// GetAddressTransactions returns the address history newest first: mempool
// entries followed by the first confirmed page. With lastSeenTxid set it
// returns the confirmed page that follows that txid instead.
func (c *MempoolClient) GetAddressTransactions(ctx context.Context, address, lastSeenTxid string) ([]Transaction, error) {
	endpoint := "/address/" + seg(address) + "/txs"
	if lastSeenTxid != "" {
		endpoint += "/chain/" + seg(lastSeenTxid)
	}
	var txs []Transaction
	if err := c.GetJSON(ctx, endpoint, &txs); err != nil {
		return nil, fmt.Errorf("get address txs %s: %w", address, err)
	}
	return txs, nil
}

func (c *MempoolClient) GetAddressMempoolTransactions(ctx context.Context, address string) ([]Transaction, error) {
	var txs []Transaction
	if err := c.GetJSON(ctx, "/address/"+seg(address)+"/txs/mempool", &txs); err != nil {
		return nil, fmt.Errorf("get address mempool txs %s: %w", address, err)
	}
	return txs, nil
}

func (c *MempoolClient) GetMempoolInfo(ctx context.Context) (*MempoolInfo, error) {
	var info MempoolInfo
	if err := c.GetJSON(ctx, "/mempool", &info); err != nil {
		return nil, fmt.Errorf("get mempool: %w", err)
	}
	return &info, nil
}

func (c *MempoolClient) GetMempoolTxids(ctx context.Context) ([]string, error) {
	var txids []string
	if err := c.GetJSON(ctx, "/mempool/txids", &txids); err != nil {
		return nil, fmt.Errorf("get mempool txids: %w", err)
	}
	return txids, nil
}

func (c *MempoolClient) GetMempoolRecent(ctx context.Context) ([]MempoolRecent, error) {
	var recent []MempoolRecent
	if err := c.GetJSON(ctx, "/mempool/recent", &recent); err != nil {
		return nil, fmt.Errorf("get mempool recent: %w", err)
	}
	return recent, nil
}

func (c *MempoolClient) GetRecommendedFees(ctx context.Context) (*RecommendedFees, error) {
	var fees RecommendedFees
	if err := c.GetJSON(ctx, "/v1/fees/recommended", &fees); err != nil {
		return nil, fmt.Errorf("get recommended fees: %w", err)
	}
	return &fees, nil
}

func (c *MempoolClient) GetMempoolBlocks(ctx context.Context) ([]MempoolBlock, error) {
	var blocks []MempoolBlock
	if err := c.GetJSON(ctx, "/v1/fees/mempool-blocks", &blocks); err != nil {
		return nil, fmt.Errorf("get mempool blocks: %w", err)
	}
	return blocks, nil
}

func (c *MempoolClient) GetFeeEstimates(ctx context.Context) (FeeEstimates, error) {
	var estimates FeeEstimates
	if err := c.GetJSON(ctx, "/fee-estimates", &estimates); err != nil {
		return nil, fmt.Errorf("get fee estimates: %w", err)
	}
	return estimates, nil
}

package mempool

import "github.com/fystack/mempool-bridge/pkg/common/enum"

// Block is the /block/:hash document.
type Block struct {
	ID                string  `json:"id"`
	Height            int64   `json:"height"`
	Version           int64   `json:"version"`
	Timestamp         int64   `json:"timestamp"`
	TxCount           int64   `json:"tx_count"`
	Size              int64   `json:"size"`
	Weight            int64   `json:"weight"`
	MerkleRoot        string  `json:"merkle_root"`
	PreviousBlockHash string  `json:"previousblockhash"`
	MedianTime        int64   `json:"mediantime"`
	Nonce             uint64  `json:"nonce"`
	Bits              uint64  `json:"bits"`
	Difficulty        float64 `json:"difficulty"`
}

type BlockStatus struct {
	InBestChain bool   `json:"in_best_chain"`
	Height      int64  `json:"height"`
	NextBest    string `json:"next_best,omitempty"`
}

// TxStatus fields other than Confirmed are only set for confirmed transactions.
type TxStatus struct {
	Confirmed   bool    `json:"confirmed"`
	BlockHeight *int64  `json:"block_height,omitempty"`
	BlockHash   *string `json:"block_hash,omitempty"`
	BlockTime   *int64  `json:"block_time,omitempty"`
}

type Transaction struct {
	TxID     string   `json:"txid"`
	Version  int64    `json:"version"`
	Locktime int64    `json:"locktime"`
	Vin      []Input  `json:"vin"`
	Vout     []Output `json:"vout"`
	Size     int64    `json:"size"`
	Weight   int64    `json:"weight"`
	Fee      int64    `json:"fee"`
	Status   TxStatus `json:"status"`
}

type Input struct {
	TxID         string   `json:"txid"`
	Vout         uint32   `json:"vout"`
	Prevout      *Output  `json:"prevout,omitempty"`
	ScriptSig    string   `json:"scriptsig"`
	ScriptSigAsm string   `json:"scriptsig_asm,omitempty"`
	Witness      []string `json:"witness,omitempty"`
	IsCoinbase   bool     `json:"is_coinbase"`
	Sequence     uint32   `json:"sequence"`
}

type Output struct {
	ScriptPubKey        string `json:"scriptpubkey"`
	ScriptPubKeyAsm     string `json:"scriptpubkey_asm"`
	ScriptPubKeyType    string `json:"scriptpubkey_type"`
	ScriptPubKeyAddress string `json:"scriptpubkey_address,omitempty"`
	Value               int64  `json:"value"`
}

type AddressStats struct {
	FundedTxoCount int64 `json:"funded_txo_count"`
	FundedTxoSum   int64 `json:"funded_txo_sum"`
	SpentTxoCount  int64 `json:"spent_txo_count"`
	SpentTxoSum    int64 `json:"spent_txo_sum"`
	TxCount        int64 `json:"tx_count"`
}

// Balance is funded minus spent.
func (s AddressStats) Balance() int64 {
	return s.FundedTxoSum - s.SpentTxoSum
}

type AddressInfo struct {
	Address      string       `json:"address"`
	ChainStats   AddressStats `json:"chain_stats"`
	MempoolStats AddressStats `json:"mempool_stats"`
}

type UTXO struct {
	TxID   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Value  int64    `json:"value"`
	Status TxStatus `json:"status"`
}

type Outspend struct {
	Spent  bool      `json:"spent"`
	TxID   string    `json:"txid,omitempty"`
	Vin    *uint32   `json:"vin,omitempty"`
	Status *TxStatus `json:"status,omitempty"`
}

type MempoolInfo struct {
	Count        int64        `json:"count"`
	VSize        int64        `json:"vsize"`
	TotalFee     int64        `json:"total_fee"`
	FeeHistogram [][2]float64 `json:"fee_histogram"`
}

type MempoolRecent struct {
	TxID  string `json:"txid"`
	Fee   int64  `json:"fee"`
	VSize int64  `json:"vsize"`
	Value int64  `json:"value"`
}

// RecommendedFees is the /v1/fees/recommended schedule in sat/vB.
type RecommendedFees struct {
	FastestFee  float64 `json:"fastestFee"`
	HalfHourFee float64 `json:"halfHourFee"`
	HourFee     float64 `json:"hourFee"`
	EconomyFee  float64 `json:"economyFee"`
	MinimumFee  float64 `json:"minimumFee"`
}

type MempoolBlock struct {
	BlockSize  int64     `json:"blockSize"`
	BlockVSize float64   `json:"blockVSize"`
	NTx        int64     `json:"nTx"`
	TotalFees  int64     `json:"totalFees"`
	MedianFee  float64   `json:"medianFee"`
	FeeRange   []float64 `json:"feeRange"`
}

// FeeEstimates maps a confirmation target in blocks to a fee rate in sat/vB.
type FeeEstimates map[string]float64

// ConfirmationInfo combines a transaction status with the tip it was read against.
type ConfirmationInfo struct {
	TxID          string
	TipHeight     int64
	Status        TxStatus
	Confirmations int64
}

// Tier returns the rate for one named tier.
func (f RecommendedFees) Tier(tier enum.FeeTier) (float64, bool) {
	switch tier {
	case enum.FeeTierFastest:
		return f.FastestFee, true
	case enum.FeeTierHalfHour:
		return f.HalfHourFee, true
	case enum.FeeTierHour:
		return f.HourFee, true
	case enum.FeeTierEconomy:
		return f.EconomyFee, true
	case enum.FeeTierMinimum:
		return f.MinimumFee, true
	}
	return 0, false
}

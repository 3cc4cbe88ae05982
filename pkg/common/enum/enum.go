package enum

type Network string
type Provider string
type EventKind string
type Direction string
type FeeTier string
type KVStoreType string
type Resource string
type Operation string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkSignet  Network = "signet"
	NetworkRegtest Network = "regtest"
)

const (
	ProviderMempool Provider = "mempool"
	ProviderEsplora Provider = "esplora"
	ProviderCustom  Provider = "custom"
)

// HasMempoolFees reports whether the provider serves the mempool.space fee
// API (/v1/fees/recommended, /v1/fees/mempool-blocks). Plain Esplora only
// has /fee-estimates. Custom endpoints are assumed to be mempool.space.
func (p Provider) HasMempoolFees() bool {
	return p != ProviderEsplora
}

const (
	EventNewBlock             EventKind = "newBlock"
	EventAddressTransaction   EventKind = "addressTransaction"
	EventTransactionConfirmed EventKind = "transactionConfirmed"
	EventFeeRateChange        EventKind = "feeRateChange"
)

// EventKinds lists every event kind in a stable order.
var EventKinds = []EventKind{
	EventNewBlock,
	EventAddressTransaction,
	EventTransactionConfirmed,
	EventFeeRateChange,
}

func (k EventKind) IsValid() bool {
	switch k {
	case EventNewBlock, EventAddressTransaction, EventTransactionConfirmed, EventFeeRateChange:
		return true
	}
	return false
}

const (
	DirectionAll      Direction = "all"
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

func (d Direction) IsValid() bool {
	return d == DirectionAll || d == DirectionIncoming || d == DirectionOutgoing
}

const (
	FeeTierFastest  FeeTier = "fastestFee"
	FeeTierHalfHour FeeTier = "halfHourFee"
	FeeTierHour     FeeTier = "hourFee"
	FeeTierEconomy  FeeTier = "economyFee"
	FeeTierMinimum  FeeTier = "minimumFee"
)

func (t FeeTier) IsValid() bool {
	switch t {
	case FeeTierFastest, FeeTierHalfHour, FeeTierHour, FeeTierEconomy, FeeTierMinimum:
		return true
	}
	return false
}

const (
	KVStoreTypeBadger KVStoreType = "badger"
)

const (
	ResourceAddress     Resource = "address"
	ResourceTransaction Resource = "transaction"
	ResourceBlock       Resource = "block"
	ResourceMempool     Resource = "mempool"
	ResourceFee         Resource = "fee"
)

// Address operations
const (
	OpGetInfo                Operation = "getInfo"
	OpGetBalance             Operation = "getBalance"
	OpGetUtxos               Operation = "getUtxos"
	OpGetTransactions        Operation = "getTransactions"
	OpGetMempoolTransactions Operation = "getMempoolTransactions"
)

// Transaction operations
const (
	OpGet              Operation = "get"
	OpGetStatus        Operation = "getStatus"
	OpGetConfirmations Operation = "getConfirmations"
	OpGetHex           Operation = "getHex"
	OpGetOutspends     Operation = "getOutspends"
	OpBroadcast        Operation = "broadcast"
)

// Block operations
const (
	OpGetByHeight     Operation = "getByHeight"
	OpGetLatest       Operation = "getLatest"
	OpGetTxids        Operation = "getTxids"
	OpGetLatestHash   Operation = "getLatestHash"
	OpGetLatestHeight Operation = "getLatestHeight"
)

// Mempool and fee operations
const (
	OpGetRecent        Operation = "getRecent"
	OpGetRecommended   Operation = "getRecommended"
	OpGetMempoolBlocks Operation = "getMempoolBlocks"
	OpGetEstimates     Operation = "getEstimates"
)

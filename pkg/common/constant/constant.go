package constant

import "time"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	SatoshisPerBTC = 100_000_000

	DefaultRequestTimeout = 30 * time.Second
	HealthCheckTimeout    = 10 * time.Second
	DefaultPollInterval   = time.Minute

	DefaultRequiredConfirmations = 6
	DefaultChangeThreshold       = 10.0

	// Upstream caps a single address history page at 25 confirmed entries.
	AddressTxsPageSize = 25

	KVPrefixCursors = "cursors"

	DefaultStreamName    = "MEMPOOL_BRIDGE"
	DefaultSubjectPrefix = "mempool.bridge"
)

const (
	MempoolMainnetURL = "https://mempool.space/api"
	MempoolTestnetURL = "https://mempool.space/testnet/api"
	MempoolSignetURL  = "https://mempool.space/signet/api"

	EsploraMainnetURL = "https://blockstream.info/api"
	EsploraTestnetURL = "https://blockstream.info/testnet/api"
)

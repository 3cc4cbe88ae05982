package config

import (
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

type Config struct {
	Environment string          `yaml:"environment" validate:"required,oneof=production development"`
	LogLevel    string          `yaml:"log_level"   validate:"omitempty,oneof=debug info warn error"`
	Bitcoin     BitcoinConfig   `yaml:"bitcoin"     validate:"required"`
	Client      ClientConfig    `yaml:"client"`
	KVStore     KVStoreConfig   `yaml:"kvstore"     validate:"required"`
	NATS        NatsConfig      `yaml:"nats"`
	Triggers    []TriggerConfig `yaml:"triggers"    validate:"dive"`
}

type BitcoinConfig struct {
	Network      enum.Network  `yaml:"network"        validate:"required,oneof=mainnet testnet signet regtest"`
	Provider     enum.Provider `yaml:"provider"       validate:"required,oneof=mempool esplora custom"`
	CustomAPIURL string        `yaml:"custom_api_url" validate:"required_if=Provider custom,omitempty,url"`
	// Optional static headers sent with every request, e.g. for a self-hosted
	// instance behind an auth proxy. Values support ${ENV_VAR} substitution.
	Headers map[string]string `yaml:"headers,omitempty"`
}

type ClientConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Throttle       ThrottleCfg   `yaml:"throttle"`
}

type ThrottleCfg struct {
	RPS   int `yaml:"rps"   validate:"min=0"`
	Burst int `yaml:"burst" validate:"min=0"`
}

type KVStoreConfig struct {
	Type   enum.KVStoreType `yaml:"type"   validate:"required,oneof=badger"`
	Badger BadgerConfig     `yaml:"badger"`
}

type BadgerConfig struct {
	Directory string `yaml:"directory" validate:"required_without=InMemory"`
	Prefix    string `yaml:"prefix"`
	InMemory  bool   `yaml:"in_memory"`
}

type NatsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"            validate:"omitempty,url"`
	Stream        string        `yaml:"stream"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	TLS           NatsTLSConfig `yaml:"tls"`
	// Upper bound for retrying a single publish before the cycle is failed.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

type NatsTLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	CACert     string `yaml:"ca_cert"`
}

// TriggerConfig describes one polling configuration. Fields that do not apply
// to the selected event are ignored.
type TriggerConfig struct {
	Name         string         `yaml:"name"          validate:"required"`
	Event        enum.EventKind `yaml:"event"         validate:"required,oneof=newBlock addressTransaction transactionConfirmed feeRateChange"`
	PollInterval time.Duration  `yaml:"poll_interval"`
	CycleTimeout time.Duration  `yaml:"cycle_timeout"`

	// addressTransaction
	Address            string         `yaml:"address"             validate:"required_if=Event addressTransaction"`
	Direction          enum.Direction `yaml:"direction"           validate:"omitempty,oneof=all incoming outgoing"`
	IncludeUnconfirmed *bool          `yaml:"include_unconfirmed"`

	// transactionConfirmed
	TxID          string `yaml:"txid"          validate:"required_if=Event transactionConfirmed"`
	Confirmations int64  `yaml:"confirmations" validate:"min=0"`

	// feeRateChange
	FeeType         enum.FeeTier `yaml:"fee_type"         validate:"omitempty,oneof=fastestFee halfHourFee hourFee economyFee minimumFee"`
	ChangeThreshold float64      `yaml:"change_threshold" validate:"min=0"`

	// newBlock
	MaxCatchupBlocks int64 `yaml:"max_catchup_blocks" validate:"min=0"`
}

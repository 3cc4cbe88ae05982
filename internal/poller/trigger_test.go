package poller

import (
	"testing"

	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mainnet = config.BitcoinConfig{Network: enum.NetworkMainnet, Provider: enum.ProviderMempool}

func TestTriggerFromConfig_Defaults(t *testing.T) {
	trigger, err := TriggerFromConfig(config.TriggerConfig{
		Name:    "wallet",
		Event:   enum.EventAddressTransaction,
		Address: " " + testAddress + " ",
	}, mainnet)
	require.NoError(t, err)

	assert.Equal(t, testAddress, trigger.Address)
	assert.Equal(t, enum.DirectionAll, trigger.Direction)
	assert.True(t, trigger.IncludeUnconfirmed)
	assert.Equal(t, int64(6), trigger.RequiredConfirmations)
	assert.Equal(t, enum.FeeTierFastest, trigger.FeeType)
	assert.Equal(t, 10.0, trigger.ChangeThreshold)
	assert.Equal(t, "https://mempool.space/api", trigger.BaseURL)
}

func TestTriggerFromConfig_IncludeUnconfirmedFalse(t *testing.T) {
	off := false
	trigger, err := TriggerFromConfig(config.TriggerConfig{
		Name:               "wallet",
		Event:              enum.EventAddressTransaction,
		Address:            testAddress,
		IncludeUnconfirmed: &off,
	}, mainnet)
	require.NoError(t, err)
	assert.False(t, trigger.IncludeUnconfirmed)
}

func TestTriggerFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tc   config.TriggerConfig
	}{
		{"missing address", config.TriggerConfig{Name: "a", Event: enum.EventAddressTransaction}},
		{"testnet address on mainnet", config.TriggerConfig{Name: "a", Event: enum.EventAddressTransaction, Address: "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"}},
		{"bad direction", config.TriggerConfig{Name: "a", Event: enum.EventAddressTransaction, Address: testAddress, Direction: "sideways"}},
		{"missing txid", config.TriggerConfig{Name: "c", Event: enum.EventTransactionConfirmed}},
		{"short txid", config.TriggerConfig{Name: "c", Event: enum.EventTransactionConfirmed, TxID: "abcd"}},
		{"non hex txid", config.TriggerConfig{Name: "c", Event: enum.EventTransactionConfirmed, TxID: "zz184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"}},
		{"negative confirmations", config.TriggerConfig{Name: "c", Event: enum.EventTransactionConfirmed, TxID: testTxID, Confirmations: -1}},
		{"bad fee tier", config.TriggerConfig{Name: "f", Event: enum.EventFeeRateChange, FeeType: "blazing"}},
		{"negative threshold", config.TriggerConfig{Name: "f", Event: enum.EventFeeRateChange, ChangeThreshold: -5}},
		{"negative catchup", config.TriggerConfig{Name: "b", Event: enum.EventNewBlock, MaxCatchupBlocks: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TriggerFromConfig(tt.tc, mainnet)
			assert.ErrorIs(t, err, ErrInvalidTrigger)
		})
	}

	_, err := TriggerFromConfig(config.TriggerConfig{Name: "x", Event: "mempoolSize"}, mainnet)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestTriggerFromConfig_FeeRateChangeNeedsMempoolFees(t *testing.T) {
	esplora := config.BitcoinConfig{Network: enum.NetworkMainnet, Provider: enum.ProviderEsplora}
	_, err := TriggerFromConfig(config.TriggerConfig{Name: "fees", Event: enum.EventFeeRateChange}, esplora)
	assert.ErrorIs(t, err, ErrInvalidTrigger)

	_, err = TriggerFromConfig(config.TriggerConfig{Name: "blocks", Event: enum.EventNewBlock}, esplora)
	assert.NoError(t, err)
}

func TestTriggerID(t *testing.T) {
	a := addressTrigger(enum.DirectionAll, true)
	b := a
	b.Name = "renamed"
	assert.Equal(t, a.ID(), b.ID(), "id is derived from what is tracked, not the label")

	c := a
	c.Direction = enum.DirectionIncoming
	assert.NotEqual(t, a.ID(), c.ID())

	d := a
	d.BaseURL = "https://mempool.space/testnet/api"
	assert.NotEqual(t, a.ID(), d.ID())

	assert.NotEqual(t, newBlockTrigger().ID(), feeTrigger(10).ID())
	assert.Len(t, a.ID(), 36)
}

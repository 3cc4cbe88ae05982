package mempool

import (
	"encoding/json"

	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/shopspring/decimal"
)

var satsPerBTC = decimal.NewFromInt(constant.SatoshisPerBTC)

// SatoshisToBTC converts an amount in satoshis to BTC without float rounding.
func SatoshisToBTC(sats int64) decimal.Decimal {
	return decimal.NewFromInt(sats).Div(satsPerBTC)
}

// BTC renders sats as a JSON number in BTC, e.g. 150000000 -> 1.5.
func BTC(sats int64) json.Number {
	return json.Number(SatoshisToBTC(sats).String())
}

// FeeRate is fee / vsize in sat/vB, vsize being weight/4, rounded to 2 places.
func FeeRate(fee, weight int64) float64 {
	if weight <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(fee).Mul(decimal.NewFromInt(4)).Div(decimal.NewFromInt(weight))
	return rate.Round(2).InexactFloat64()
}

// InputAddresses returns the resolved prevout addresses of tx.
func (tx *Transaction) InputAddresses() []string {
	addrs := make([]string, 0, len(tx.Vin))
	for _, in := range tx.Vin {
		if in.Prevout != nil && in.Prevout.ScriptPubKeyAddress != "" {
			addrs = append(addrs, in.Prevout.ScriptPubKeyAddress)
		}
	}
	return addrs
}

func (tx *Transaction) OutputAddresses() []string {
	addrs := make([]string, 0, len(tx.Vout))
	for _, out := range tx.Vout {
		if out.ScriptPubKeyAddress != "" {
			addrs = append(addrs, out.ScriptPubKeyAddress)
		}
	}
	return addrs
}

// InputValue sums resolved prevout values.
func (tx *Transaction) InputValue() int64 {
	var total int64
	for _, in := range tx.Vin {
		if in.Prevout != nil {
			total += in.Prevout.Value
		}
	}
	return total
}

func (tx *Transaction) OutputValue() int64 {
	var total int64
	for _, out := range tx.Vout {
		total += out.Value
	}
	return total
}

// ReceivedBy sums outputs paying address.
func (tx *Transaction) ReceivedBy(address string) int64 {
	var total int64
	for _, out := range tx.Vout {
		if out.ScriptPubKeyAddress == address {
			total += out.Value
		}
	}
	return total
}

// SentBy sums inputs spending from address.
func (tx *Transaction) SentBy(address string) int64 {
	var total int64
	for _, in := range tx.Vin {
		if in.Prevout != nil && in.Prevout.ScriptPubKeyAddress == address {
			total += in.Prevout.Value
		}
	}
	return total
}

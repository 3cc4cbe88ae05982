package poller

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

// Event is one emitted record. Key identifies the event within its trigger
// and is stable across re-emission.
type Event interface {
	Kind() enum.EventKind
	Key() string
	event()
}

type NewBlockEvent struct {
	Event      enum.EventKind `json:"event"`
	Height     int64          `json:"height"`
	Hash       string         `json:"hash"`
	Timestamp  int64          `json:"timestamp"`
	TxCount    int64          `json:"txCount"`
	Size       int64          `json:"size"`
	Weight     int64          `json:"weight"`
	Difficulty float64        `json:"difficulty"`
}

func (NewBlockEvent) Kind() enum.EventKind { return enum.EventNewBlock }
func (e NewBlockEvent) Key() string        { return strconv.FormatInt(e.Height, 10) + ":" + e.Hash }
func (NewBlockEvent) event()               {}

func newBlockEvent(b *mempool.Block) NewBlockEvent {
	return NewBlockEvent{
		Event:      enum.EventNewBlock,
		Height:     b.Height,
		Hash:       b.ID,
		Timestamp:  b.Timestamp,
		TxCount:    b.TxCount,
		Size:       b.Size,
		Weight:     b.Weight,
		Difficulty: b.Difficulty,
	}
}

type AddressTransactionEvent struct {
	Event       enum.EventKind `json:"event"`
	Address     string         `json:"address"`
	TxID        string         `json:"txid"`
	Confirmed   bool           `json:"confirmed"`
	BlockHeight *int64         `json:"blockHeight"`
	BlockTime   *int64         `json:"blockTime"`
	Fee         int64          `json:"fee"`
	Incoming    bool           `json:"incoming"`
	Outgoing    bool           `json:"outgoing"`

	ReceivedSatoshis int64       `json:"receivedSatoshis"`
	ReceivedBTC      json.Number `json:"receivedBtc"`
	SentSatoshis     int64       `json:"sentSatoshis"`
	SentBTC          json.Number `json:"sentBtc"`
}

func (AddressTransactionEvent) Kind() enum.EventKind { return enum.EventAddressTransaction }
func (e AddressTransactionEvent) Key() string        { return e.Address + ":" + e.TxID }
func (AddressTransactionEvent) event()               {}

type TransactionConfirmedEvent struct {
	Event         enum.EventKind `json:"event"`
	TxID          string         `json:"txid"`
	Confirmations int64          `json:"confirmations"`
	BlockHash     string         `json:"blockHash"`
	BlockHeight   int64          `json:"blockHeight"`
}

func (TransactionConfirmedEvent) Kind() enum.EventKind { return enum.EventTransactionConfirmed }
func (e TransactionConfirmedEvent) Key() string        { return e.TxID }
func (TransactionConfirmedEvent) event()               {}

type FeeRateChangeEvent struct {
	Event         enum.EventKind          `json:"event"`
	FeeType       enum.FeeTier            `json:"feeType"`
	PreviousFee   float64                 `json:"previousFee"`
	CurrentFee    float64                 `json:"currentFee"`
	ChangePercent float64                 `json:"changePercent"`
	Direction     string                  `json:"direction"`
	AllFees       mempool.RecommendedFees `json:"allFees"`
	Sequence      int64                   `json:"sequence"`
}

const (
	FeeIncreased = "increased"
	FeeDecreased = "decreased"
)

func (FeeRateChangeEvent) Kind() enum.EventKind { return enum.EventFeeRateChange }
func (e FeeRateChangeEvent) Key() string {
	return fmt.Sprintf("%s:%d:%g:%g", e.FeeType, e.Sequence, e.PreviousFee, e.CurrentFee)
}
func (FeeRateChangeEvent) event() {}

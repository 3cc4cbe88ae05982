package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

const (
	testAddress = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"
	otherAddr   = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	testTxID    = "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"
)

var errUpstream = errors.New("HTTP 503 from https://mempool.space/api/blocks/tip/height: unavailable")

type fakeSource struct {
	mu sync.Mutex

	tip    int64
	tipErr error

	blockErr   map[int64]error
	blockCalls []int64

	addrTxs []mempool.Transaction
	addrErr error

	conf    *mempool.ConfirmationInfo
	confErr error

	fees    *mempool.RecommendedFees
	feesErr error

	calls int
}

func (f *fakeSource) GetTipHeight(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tip, f.tipErr
}

func (f *fakeSource) BlockByHeight(ctx context.Context, height int64) (*mempool.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.blockCalls = append(f.blockCalls, height)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.blockErr[height]; ok {
		return nil, err
	}
	return &mempool.Block{
		ID:        fmt.Sprintf("hash-%d", height),
		Height:    height,
		Timestamp: 1700000000 + height,
		TxCount:   height % 7,
	}, nil
}

func (f *fakeSource) GetAddressTransactions(ctx context.Context, address, lastSeenTxid string) ([]mempool.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.addrTxs, f.addrErr
}

func (f *fakeSource) Confirmations(ctx context.Context, txid string) (*mempool.ConfirmationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.conf, f.confErr
}

func (f *fakeSource) GetRecommendedFees(ctx context.Context) (*mempool.RecommendedFees, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fees, f.feesErr
}

func (f *fakeSource) setConfirmations(tip, blockHeight int64) {
	f.conf = &mempool.ConfirmationInfo{
		TxID:          testTxID,
		TipHeight:     tip,
		Confirmations: mempool.ConfirmationCount(tip, blockHeight),
		Status: mempool.TxStatus{
			Confirmed:   true,
			BlockHeight: ptr(blockHeight),
			BlockHash:   ptr("blockhash"),
			BlockTime:   ptr(int64(1700000000)),
		},
	}
}

func (f *fakeSource) setFastestFee(v float64) {
	f.fees = &mempool.RecommendedFees{FastestFee: v, HalfHourFee: v - 1, HourFee: v - 2, EconomyFee: 2, MinimumFee: 1}
}

func newTestEngine(src Source) *Engine {
	return NewEngine(src, &chaincfg.MainNetParams)
}

func newBlockTrigger() Trigger {
	return Trigger{Name: "blocks", Event: enum.EventNewBlock, Network: enum.NetworkMainnet, BaseURL: "https://mempool.space/api"}
}

func addressTrigger(direction enum.Direction, includeUnconfirmed bool) Trigger {
	return Trigger{
		Name:               "wallet",
		Event:              enum.EventAddressTransaction,
		Network:            enum.NetworkMainnet,
		BaseURL:            "https://mempool.space/api",
		Address:            testAddress,
		Direction:          direction,
		IncludeUnconfirmed: includeUnconfirmed,
	}
}

func confirmationTrigger(required int64) Trigger {
	return Trigger{
		Name:                  "settlement",
		Event:                 enum.EventTransactionConfirmed,
		Network:               enum.NetworkMainnet,
		BaseURL:               "https://mempool.space/api",
		TxID:                  testTxID,
		RequiredConfirmations: required,
	}
}

func feeTrigger(threshold float64) Trigger {
	return Trigger{
		Name:            "fees",
		Event:           enum.EventFeeRateChange,
		Network:         enum.NetworkMainnet,
		BaseURL:         "https://mempool.space/api",
		FeeType:         enum.FeeTierFastest,
		ChangeThreshold: threshold,
	}
}

// incomingTx pays testAddress from otherAddr.
func incomingTx(id string, confirmed bool) mempool.Transaction {
	tx := mempool.Transaction{
		TxID: id,
		Fee:  200,
		Vin:  []mempool.Input{{Prevout: &mempool.Output{ScriptPubKeyAddress: otherAddr, Value: 10_000}}},
		Vout: []mempool.Output{{ScriptPubKeyAddress: testAddress, Value: 9_800}},
	}
	if confirmed {
		tx.Status = mempool.TxStatus{Confirmed: true, BlockHeight: ptr(int64(840000)), BlockTime: ptr(int64(1713571767))}
	}
	return tx
}

// outgoingTx spends from testAddress with change back to it.
func outgoingTx(id string) mempool.Transaction {
	return mempool.Transaction{
		TxID: id,
		Fee:  300,
		Vin:  []mempool.Input{{Prevout: &mempool.Output{ScriptPubKeyAddress: testAddress, Value: 50_000}}},
		Vout: []mempool.Output{
			{ScriptPubKeyAddress: otherAddr, Value: 20_000},
			{ScriptPubKeyAddress: testAddress, Value: 29_700},
		},
		Status: mempool.TxStatus{Confirmed: true, BlockHeight: ptr(int64(840001)), BlockTime: ptr(int64(1713572000))},
	}
}

type memStore struct {
	cursors map[string]Cursor
	saves   int
	getErr  error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{cursors: map[string]Cursor{}}
}

func (m *memStore) Get(id string) (Cursor, bool, error) {
	if m.getErr != nil {
		return Cursor{}, false, m.getErr
	}
	c, ok := m.cursors[id]
	return c, ok, nil
}

func (m *memStore) Save(id string, c Cursor) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.cursors[id] = c
	return nil
}

type emitted struct {
	trigger, kind, key string
	data               any
}

type fakeSink struct {
	events []emitted
	err    error
}

func (s *fakeSink) EmitEvent(trigger, kind, key string, data any) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, emitted{trigger: trigger, kind: kind, key: key, data: data})
	return nil
}

package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_FirstCycleCommitsBaseline(t *testing.T) {
	store := newMemStore()
	sink := &fakeSink{}
	runner := NewRunner(newTestEngine(&fakeSource{tip: 100}), store, sink)
	trigger := newBlockTrigger()

	res, err := runner.RunOnce(context.Background(), trigger)
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Empty(t, res.Events)
	assert.Empty(t, sink.events)
	assert.Equal(t, 1, store.saves)

	saved := store.cursors[trigger.ID()]
	assert.Equal(t, int64(100), *saved.LastBlockHeight)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestRunner_EmitsThenCommits(t *testing.T) {
	store := newMemStore()
	trigger := newBlockTrigger()
	store.cursors[trigger.ID()] = Cursor{LastBlockHeight: ptr(int64(100))}
	sink := &fakeSink{}
	runner := NewRunner(newTestEngine(&fakeSource{tip: 102}), store, sink)
	runner.now = func() time.Time { return time.Unix(1700000000, 0) }

	res, err := runner.RunOnce(context.Background(), trigger)
	require.NoError(t, err)
	require.Len(t, sink.events, 2)
	assert.Equal(t, "blocks", sink.events[0].trigger)
	assert.Equal(t, "newBlock", sink.events[0].kind)
	assert.Equal(t, "101:hash-101", sink.events[0].key)
	assert.Equal(t, "102:hash-102", sink.events[1].key)

	assert.True(t, res.Committed)
	assert.Equal(t, int64(102), *store.cursors[trigger.ID()].LastBlockHeight)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), store.cursors[trigger.ID()].UpdatedAt)
}

func TestRunner_UnchangedCursorIsNotWritten(t *testing.T) {
	store := newMemStore()
	trigger := newBlockTrigger()
	store.cursors[trigger.ID()] = Cursor{LastBlockHeight: ptr(int64(100))}
	runner := NewRunner(newTestEngine(&fakeSource{tip: 100}), store, &fakeSink{})

	res, err := runner.RunOnce(context.Background(), trigger)
	require.NoError(t, err)
	assert.False(t, res.Committed)
	assert.Zero(t, store.saves)
}

func TestRunner_PollFailureDoesNotCommit(t *testing.T) {
	store := newMemStore()
	trigger := newBlockTrigger()
	store.cursors[trigger.ID()] = Cursor{LastBlockHeight: ptr(int64(100))}
	runner := NewRunner(newTestEngine(&fakeSource{tipErr: errUpstream}), store, &fakeSink{})

	_, err := runner.RunOnce(context.Background(), trigger)
	var pollErr *PollError
	require.ErrorAs(t, err, &pollErr)
	assert.Zero(t, store.saves)
	assert.Equal(t, int64(100), *store.cursors[trigger.ID()].LastBlockHeight)
}

func TestRunner_SinkFailureDoesNotCommit(t *testing.T) {
	store := newMemStore()
	trigger := newBlockTrigger()
	store.cursors[trigger.ID()] = Cursor{LastBlockHeight: ptr(int64(100))}
	sinkErr := errors.New("nats: no responders available")
	runner := NewRunner(newTestEngine(&fakeSource{tip: 101}), store, &fakeSink{err: sinkErr})

	_, err := runner.RunOnce(context.Background(), trigger)
	assert.ErrorIs(t, err, sinkErr)
	assert.Zero(t, store.saves)
}

func TestRunner_StoreErrors(t *testing.T) {
	trigger := newBlockTrigger()

	store := newMemStore()
	store.getErr = errors.New("badger closed")
	runner := NewRunner(newTestEngine(&fakeSource{tip: 101}), store, &fakeSink{})
	_, err := runner.RunOnce(context.Background(), trigger)
	assert.ErrorContains(t, err, "load cursor")

	store = newMemStore()
	store.saveErr = errors.New("disk full")
	runner = NewRunner(newTestEngine(&fakeSource{tip: 101}), store, &fakeSink{})
	_, err = runner.RunOnce(context.Background(), trigger)
	assert.ErrorContains(t, err, "save cursor")
}

func TestRunner_RecurringFeeChangeKeysAreDistinct(t *testing.T) {
	src := &fakeSource{}
	store := newMemStore()
	sink := &fakeSink{}
	runner := NewRunner(newTestEngine(src), store, sink)
	trigger := feeTrigger(10)

	for _, fee := range []float64{100, 120, 100, 120} {
		src.setFastestFee(fee)
		_, err := runner.RunOnce(context.Background(), trigger)
		require.NoError(t, err)
	}

	require.Len(t, sink.events, 3)
	seen := map[string]bool{}
	for _, ev := range sink.events {
		assert.False(t, seen[ev.key], "key %s reused", ev.key)
		seen[ev.key] = true
	}
	assert.Equal(t, "fastestFee:1:100:120", sink.events[0].key)
	assert.Equal(t, "fastestFee:3:100:120", sink.events[2].key)
	assert.Equal(t, int64(3), store.cursors[trigger.ID()].FeeChanges)
}

func TestRunner_FeeChangeKeyStableAcrossSinkRetry(t *testing.T) {
	src := &fakeSource{}
	store := newMemStore()
	trigger := feeTrigger(10)
	store.cursors[trigger.ID()] = Cursor{LastFeeValue: ptr(100.0), FeeChanges: 4}
	sink := &fakeSink{err: errors.New("nats unavailable")}
	runner := NewRunner(newTestEngine(src), store, sink)

	src.setFastestFee(130)
	_, err := runner.RunOnce(context.Background(), trigger)
	require.Error(t, err)

	sink.err = nil
	_, err = runner.RunOnce(context.Background(), trigger)
	require.NoError(t, err)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "fastestFee:5:100:130", sink.events[0].key)
}

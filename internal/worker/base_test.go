package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCycler struct {
	mu       sync.Mutex
	calls    int
	active   atomic.Int32
	overlaps atomic.Int32
	delay    time.Duration
	err      error
	// deadline left on the context at each call
	budgets []time.Duration
}

func (f *fakeCycler) RunOnce(ctx context.Context, t poller.Trigger) (*poller.CycleResult, error) {
	if f.active.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	defer f.active.Add(-1)

	f.mu.Lock()
	f.calls++
	if dl, ok := ctx.Deadline(); ok {
		f.budgets = append(f.budgets, time.Until(dl))
	}
	delay, err := f.delay, f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &poller.CycleResult{TriggerID: t.ID()}, nil
}

func (f *fakeCycler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeErrorSink struct {
	mu       sync.Mutex
	triggers []string
	errs     []error
}

func (s *fakeErrorSink) EmitError(trigger string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, trigger)
	s.errs = append(s.errs, err)
	return nil
}

func (s *fakeErrorSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

func blocksTrigger() poller.Trigger {
	return poller.Trigger{
		Name:    "blocks",
		Event:   enum.EventNewBlock,
		Network: enum.NetworkMainnet,
		BaseURL: "https://mempool.space/api",
	}
}

func TestTriggerWorker_RunsImmediatelyThenOnTicker(t *testing.T) {
	cycler := &fakeCycler{}
	w := NewTriggerWorker(context.Background(), blocksTrigger(), Schedule{PollInterval: 20 * time.Millisecond}, cycler, nil)
	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool { return cycler.Calls() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestTriggerWorker_CyclesDoNotOverlap(t *testing.T) {
	cycler := &fakeCycler{delay: 30 * time.Millisecond}
	w := NewTriggerWorker(context.Background(), blocksTrigger(), Schedule{PollInterval: 5 * time.Millisecond}, cycler, nil)
	w.Start()

	assert.Eventually(t, func() bool { return cycler.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
	assert.Zero(t, cycler.overlaps.Load())
}

func TestTriggerWorker_CycleTimeoutBoundsContext(t *testing.T) {
	cycler := &fakeCycler{}
	w := NewTriggerWorker(context.Background(), blocksTrigger(), Schedule{
		PollInterval: time.Hour,
		CycleTimeout: 50 * time.Millisecond,
	}, cycler, nil)
	w.Start()
	assert.Eventually(t, func() bool { return cycler.Calls() == 1 }, time.Second, 5*time.Millisecond)
	w.Stop()

	cycler.mu.Lock()
	defer cycler.mu.Unlock()
	require.Len(t, cycler.budgets, 1)
	assert.LessOrEqual(t, cycler.budgets[0], 50*time.Millisecond)
}

func TestTriggerWorker_FailedCyclePublishesError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	cycler := &fakeCycler{err: boom}
	sink := &fakeErrorSink{}
	w := NewTriggerWorker(context.Background(), blocksTrigger(), Schedule{PollInterval: time.Hour}, cycler, sink)
	w.Start()
	assert.Eventually(t, func() bool { return sink.Count() == 1 }, time.Second, 5*time.Millisecond)
	w.Stop()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "blocks", sink.triggers[0])
	assert.ErrorIs(t, sink.errs[0], boom)
}

func TestTriggerWorker_StopCancelsInFlightCycle(t *testing.T) {
	cycler := &fakeCycler{delay: time.Hour}
	sink := &fakeErrorSink{}
	w := NewTriggerWorker(context.Background(), blocksTrigger(), Schedule{PollInterval: time.Hour}, cycler, sink)
	w.Start()
	assert.Eventually(t, func() bool { return cycler.Calls() == 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
	// shutdown is not reported as a failed cycle
	assert.Zero(t, sink.Count())
}

func TestSchedule_Defaults(t *testing.T) {
	s := Schedule{}.normalize()
	assert.Equal(t, time.Minute, s.PollInterval)
	assert.Equal(t, 4*time.Minute, s.CycleTimeout)

	s = Schedule{PollInterval: 10 * time.Second}.normalize()
	assert.Equal(t, 40*time.Second, s.CycleTimeout)
}

func TestBuildWorkers(t *testing.T) {
	cfg, err := config.Parse([]byte(`
kvstore:
  badger:
    in_memory: true
triggers:
  - name: blocks
    event: newBlock
    poll_interval: 30s
  - name: fees
    event: feeRateChange
`))
	require.NoError(t, err)

	all, err := BuildWorkers(context.Background(), cfg, &fakeCycler{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := BuildWorkers(context.Background(), cfg, &fakeCycler{}, nil, "fees")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "fees", only[0].(*TriggerWorker).trigger.Name)

	_, err = BuildWorkers(context.Background(), cfg, &fakeCycler{}, nil, "missing")
	assert.Error(t, err)
}

type stubWorker struct {
	started, stopped atomic.Bool
}

func (s *stubWorker) Start() { s.started.Store(true) }
func (s *stubWorker) Stop()  { s.stopped.Store(true) }

func TestManager_StopsWorkersThenClosesResources(t *testing.T) {
	m := NewManager()
	a, b := &stubWorker{}, &stubWorker{}
	m.AddWorkers(a, b)

	var order []string
	m.OnStop("emitter", func() error { order = append(order, "emitter"); return nil })
	m.OnStop("kv store", func() error { order = append(order, "kv store"); return errors.New("already closed") })

	m.Start()
	assert.True(t, a.started.Load())
	assert.True(t, b.started.Load())

	m.Stop()
	assert.True(t, a.stopped.Load())
	assert.True(t, b.stopped.Load())
	assert.Equal(t, []string{"emitter", "kv store"}, order)
	assert.Equal(t, 2, m.Len())
}

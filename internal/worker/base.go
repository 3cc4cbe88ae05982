package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
)

type Schedule struct {
	PollInterval time.Duration
	CycleTimeout time.Duration
}

func (s Schedule) normalize() Schedule {
	if s.PollInterval <= 0 {
		s.PollInterval = constant.DefaultPollInterval
	}
	if s.CycleTimeout <= 0 {
		s.CycleTimeout = 4 * s.PollInterval
	}
	return s
}

// TriggerWorker polls one trigger on a ticker. Cycles never overlap: the
// next one starts only after the previous returned.
type TriggerWorker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger

	trigger  poller.Trigger
	schedule Schedule
	cycler   Cycler
	errors   ErrorSink
}

func NewTriggerWorker(ctx context.Context, t poller.Trigger, schedule Schedule, cycler Cycler, errs ErrorSink) *TriggerWorker {
	ctx, cancel := context.WithCancel(ctx)
	return &TriggerWorker{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(
			slog.String("trigger", t.Name),
			slog.String("event", string(t.Event)),
		),
		trigger:  t,
		schedule: schedule.normalize(),
		cycler:   cycler,
		errors:   errs,
	}
}

func (w *TriggerWorker) Start() {
	w.logger.Info("Starting trigger worker",
		"trigger_id", w.trigger.ID(),
		"interval", w.schedule.PollInterval,
		"cycle_timeout", w.schedule.CycleTimeout,
	)
	w.wg.Add(1)
	go w.run()
}

// Stop cancels the worker and waits for an in-flight cycle to return.
func (w *TriggerWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

func (w *TriggerWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.schedule.PollInterval)
	defer ticker.Stop()

	w.cycle()
	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Context done, stopping worker loop")
			return
		case <-ticker.C:
			w.cycle()
		}
	}
}

func (w *TriggerWorker) cycle() {
	if w.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(w.ctx, w.schedule.CycleTimeout)
	defer cancel()

	start := time.Now()
	res, err := w.cycler.RunOnce(ctx, w.trigger)
	if err != nil {
		if w.ctx.Err() != nil {
			w.logger.Debug("Cycle interrupted by shutdown", "err", err)
			return
		}
		w.logger.Error("Poll cycle failed", "err", err, "elapsed", time.Since(start))
		if w.errors != nil {
			if emitErr := w.errors.EmitError(w.trigger.Name, err); emitErr != nil {
				w.logger.Warn("Failed to publish cycle error", "err", emitErr)
			}
		}
		return
	}

	if len(res.Events) == 0 && !res.Committed {
		w.logger.Debug("Nothing new", "elapsed", time.Since(start))
		return
	}
	w.logger.Info("Poll cycle done",
		"events", len(res.Events),
		"committed", res.Committed,
		"elapsed", time.Since(start),
	)
}

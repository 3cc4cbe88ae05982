package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/logger"
)

// CursorStore is the durable record of every trigger's cursor.
type CursorStore interface {
	Get(triggerID string) (Cursor, bool, error)
	Save(triggerID string, cursor Cursor) error
}

// Sink receives emitted events. key is the event's stable key within trigger.
type Sink interface {
	EmitEvent(trigger, kind, key string, data any) error
}

type CycleResult struct {
	TriggerID string
	Events    []Event
	Cursor    Cursor
	Committed bool
}

// Runner wraps the engine with cursor read, event emission and commit.
type Runner struct {
	engine *Engine
	store  CursorStore
	sink   Sink
	now    func() time.Time
}

func NewRunner(engine *Engine, store CursorStore, sink Sink) *Runner {
	return &Runner{
		engine: engine,
		store:  store,
		sink:   sink,
		now:    time.Now,
	}
}

// RunOnce performs one cycle for t. The cursor is written only when the poll
// and every emission succeed, and only if it changed.
func (r *Runner) RunOnce(ctx context.Context, t Trigger) (*CycleResult, error) {
	id := t.ID()
	log := logger.With(slog.String("trigger", t.Name), slog.String("event", string(t.Event)))

	current, found, err := r.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("load cursor %s: %w", id, err)
	}
	if !found {
		log.Debug("No cursor yet, first cycle will capture a baseline", "trigger_id", id)
	}

	events, next, err := r.engine.Poll(ctx, t, current)
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		if err := r.sink.EmitEvent(t.Name, string(ev.Kind()), ev.Key(), ev); err != nil {
			return nil, fmt.Errorf("emit %s %s: %w", ev.Kind(), ev.Key(), err)
		}
	}

	result := &CycleResult{TriggerID: id, Events: events, Cursor: current}
	if next.Equal(current) {
		return result, nil
	}

	next.UpdatedAt = r.now().UTC()
	if err := r.store.Save(id, next); err != nil {
		return nil, fmt.Errorf("save cursor %s: %w", id, err)
	}
	result.Cursor = next
	result.Committed = true
	log.Debug("Cursor committed", "events", len(events))
	return result, nil
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/fystack/mempool-bridge/pkg/infra"
	"github.com/fystack/mempool-bridge/pkg/retry"
)

const defaultPublishTimeout = 10 * time.Second

type Emitter interface {
	EmitEvent(trigger, kind, key string, data any) error
	EmitError(trigger string, err error) error
	Emit(event Envelope, msgID string) error
	Close()
}

type Options struct {
	SubjectPrefix  string
	Network        string
	PublishTimeout time.Duration
}

type emitter struct {
	queue infra.MessageQueue
	opts  Options
	now   func() time.Time
}

// NewEmitter publishes envelopes on queue. A nil queue logs events instead,
// for running without a broker.
func NewEmitter(queue infra.MessageQueue, opts Options) Emitter {
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaultPublishTimeout
	}
	return &emitter{
		queue: queue,
		opts:  opts,
		now:   time.Now,
	}
}

func (e *emitter) EmitEvent(trigger, kind, key string, data any) error {
	return e.Emit(Envelope{
		Type:      kind,
		Trigger:   trigger,
		Network:   e.opts.Network,
		Data:      data,
		Timestamp: e.now().UTC().Unix(),
	}, MessageID(trigger, key))
}

func (e *emitter) EmitError(trigger string, err error) error {
	payload := map[string]string{}
	if err != nil {
		payload["message"] = err.Error()
	}

	return e.Emit(Envelope{
		Type:      TypeError,
		Trigger:   trigger,
		Network:   e.opts.Network,
		Data:      payload,
		Timestamp: e.now().UTC().Unix(),
	}, "")
}

func (e *emitter) Emit(event Envelope, msgID string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if e.queue == nil {
		logger.Info("Event", "type", event.Type, "trigger", event.Trigger, "id", msgID, "data", string(data))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.PublishTimeout)
	defer cancel()

	subject := Subject(e.opts.SubjectPrefix, event.Type)
	return retry.Exponential(func() error {
		return e.queue.Enqueue(ctx, subject, data, &infra.EnqueueOptions{
			IdempotententKey: msgID,
		})
	}, retry.ExponentialConfig{
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  e.opts.PublishTimeout,
		Context:         ctx,
		OnRetry: func(err error, next time.Duration) {
			logger.Warn("Publish failed, retrying", "subject", subject, "next", next, "err", err)
		},
	})
}

func (e *emitter) Close() {
	if e.queue != nil {
		e.queue.Close()
	}
}

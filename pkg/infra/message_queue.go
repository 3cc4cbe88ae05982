package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var (
	ErrPermament = errors.New("permanent messaging error")
	MaxMsgSize   = int32(64 * 1024) // 64KB
)

type MessageQueue interface {
	Enqueue(ctx context.Context, subject string, message []byte, options *EnqueueOptions) error
	// Dequeue delivers new messages matching filter to handler until ctx is done.
	// The handler must not block: delivery is sequential.
	Dequeue(ctx context.Context, filter string, handler func(subject string, message []byte) error) error
	Close()
}

type EnqueueOptions struct {
	IdempotententKey string
}

type jetStreamQueue struct {
	stream string
	js     jetstream.JetStream
}

// NewJetStreamQueue makes sure the stream exists and covers subjects.
func NewJetStreamQueue(ctx context.Context, nc *nats.Conn, streamName string, subjects []string) (MessageQueue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	if stream, err := js.Stream(ctx, streamName); err == nil {
		if info, err := stream.Info(ctx); err == nil {
			logger.Info("Stream found", "name", info.Config.Name, "subjects", info.Config.Subjects, "msgs", info.State.Msgs)
		}
	} else {
		logger.Warn("Stream not found, creating new stream", "stream", streamName)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Description: "Bitcoin explorer trigger events",
		Subjects:    subjects,
		MaxMsgSize:  MaxMsgSize,
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      2 * 24 * time.Hour,
		// Publishes carry Nats-Msg-Id, so a re-emitted event inside this
		// window is dropped by the server.
		Duplicates: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream %s: %w", streamName, err)
	}

	return &jetStreamQueue{stream: streamName, js: js}, nil
}

func (q *jetStreamQueue) Enqueue(ctx context.Context, subject string, message []byte, options *EnqueueOptions) error {
	logger.Debug("Enqueueing message", "subject", subject, "size", len(message))
	header := nats.Header{}
	if options != nil && options.IdempotententKey != "" {
		header.Set(jetstream.MsgIDHeader, options.IdempotententKey)
	}

	ack, err := q.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    message,
		Header:  header,
	})
	if err != nil {
		return fmt.Errorf("error enqueueing message: %w", err)
	}
	if ack != nil && ack.Duplicate {
		logger.Debug("Duplicate message dropped by stream", "subject", subject, "seq", ack.Sequence)
	}
	return nil
}

func (q *jetStreamQueue) Dequeue(ctx context.Context, filter string, handler func(subject string, message []byte) error) error {
	consumer, err := q.js.OrderedConsumer(ctx, q.stream, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{filter},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer on %s: %w", filter, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(msg.Subject(), msg.Data()); err != nil {
			if errors.Is(err, ErrPermament) {
				logger.Warn("Permanent error on message", "subject", msg.Subject(), "err", err)
				return
			}
			logger.Error("Error handling message", "subject", msg.Subject(), "err", err)
		}
	})
	if err != nil {
		return err
	}
	defer cc.Stop()

	<-ctx.Done()
	return nil
}

func (q *jetStreamQueue) Close() {}

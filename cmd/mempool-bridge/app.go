package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fystack/mempool-bridge/internal/rpc"
	"github.com/fystack/mempool-bridge/internal/rpc/mempool"
	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/fystack/mempool-bridge/pkg/common/logger"
	"github.com/fystack/mempool-bridge/pkg/events"
	"github.com/fystack/mempool-bridge/pkg/infra"
	"github.com/fystack/mempool-bridge/pkg/kvstore"
	"github.com/fystack/mempool-bridge/pkg/ratelimiter"
	"github.com/fystack/mempool-bridge/pkg/retry"
	"github.com/fystack/mempool-bridge/pkg/store/cursorstore"
	"github.com/nats-io/nats.go"
)

const (
	natsConnectAttempts = 5
	natsConnectInterval = 2 * time.Second
)

// loadConfig reads the config and initialises the logger. Commands that print
// results on stdout log to stderr.
func loadConfig(opts *rootOptions, logWriter io.Writer) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", opts.configPath, err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if opts.debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		Writer:     logWriter,
		TimeFormat: time.RFC3339,
	})
	logger.Debug("Config loaded", "path", opts.configPath, "network", cfg.Bitcoin.Network, "provider", cfg.Bitcoin.Provider)
	return cfg, nil
}

func newMempoolClient(cfg *config.Config) (*mempool.MempoolClient, error) {
	baseURL, err := cfg.Bitcoin.BaseURL()
	if err != nil {
		return nil, err
	}
	opts := rpc.ClientOptions{
		Timeout: cfg.Client.RequestTimeout,
		Headers: cfg.Bitcoin.Headers,
	}
	if rps := cfg.Client.Throttle.RPS; rps > 0 {
		opts.RateLimiter = ratelimiter.Shared(baseURL, rps, cfg.Client.Throttle.Burst)
	}
	return mempool.NewMempoolClient(baseURL, opts), nil
}

func openCursorStore(cfg *config.Config) (cursorstore.Store, error) {
	kv, err := kvstore.NewFromConfig(cfg.KVStore)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return cursorstore.NewCursorStore(kv), nil
}

// connectQueue dials NATS and makes sure the event stream exists.
func connectQueue(ctx context.Context, cfg *config.Config) (infra.MessageQueue, *nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Constant(func() error {
		var err error
		nc, err = infra.GetNATSConnection(cfg.NATS, cfg.Environment)
		if err != nil {
			logger.Warn("NATS connect failed", "url", cfg.NATS.URL, "err", err)
		}
		return err
	}, natsConnectInterval, natsConnectAttempts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect nats: %w", err)
	}

	queue, err := infra.NewJetStreamQueue(ctx, nc, cfg.NATS.Stream, events.StreamSubjects(cfg.NATS.SubjectPrefix))
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return queue, nc, nil
}

// newEmitter returns a log-only emitter when NATS is disabled.
func newEmitter(ctx context.Context, cfg *config.Config) (events.Emitter, func() error, error) {
	opts := events.Options{
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		Network:        string(cfg.Bitcoin.Network),
		PublishTimeout: cfg.NATS.PublishTimeout,
	}
	if !cfg.NATS.Enabled {
		logger.Warn("NATS disabled, events are only logged")
		emitter := events.NewEmitter(nil, opts)
		return emitter, func() error { emitter.Close(); return nil }, nil
	}

	queue, nc, err := connectQueue(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	emitter := events.NewEmitter(queue, opts)
	return emitter, func() error {
		emitter.Close()
		return nc.Drain()
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

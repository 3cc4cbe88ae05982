package worker

import (
	"sync"
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/logger"
)

const defaultShutdownTimeout = 30 * time.Second

type closer struct {
	name string
	fn   func() error
}

type Manager struct {
	workers         []Worker
	closers         []closer
	shutdownTimeout time.Duration
}

func NewManager() *Manager {
	return &Manager{shutdownTimeout: defaultShutdownTimeout}
}

// Start launches all injected workers
func (m *Manager) Start() {
	for _, w := range m.workers {
		w.Start()
	}
}

// Stop shuts down all workers concurrently with a timeout, then closes resources.
func (m *Manager) Stop() {
	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, w := range m.workers {
			if w != nil {
				wg.Add(1)
				go func(w Worker) {
					defer wg.Done()
					w.Stop()
				}(w)
			}
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("All workers stopped")
	case <-time.After(m.shutdownTimeout):
		logger.Warn("Worker shutdown timed out, proceeding with resource cleanup",
			"timeout", m.shutdownTimeout)
	}

	for _, c := range m.closers {
		if err := c.fn(); err != nil {
			logger.Error("Failed to close "+c.name, "err", err)
		}
	}
	logger.Info("Manager stopped")
}

// Inject workers into manager
func (m *Manager) AddWorkers(workers ...Worker) {
	m.workers = append(m.workers, workers...)
}

// OnStop registers a resource closed after the workers, in registration order.
func (m *Manager) OnStop(name string, fn func() error) {
	m.closers = append(m.closers, closer{name: name, fn: fn})
}

func (m *Manager) Len() int { return len(m.workers) }

package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/psantana5/perfy/pkg/logging"
)

// Func releases one resource within the shutdown deadline
type Func func(context.Context) error

// Manager handles graceful shutdown
type Manager struct {
	mu      sync.Mutex
	funcs   []Func
	timeout time.Duration
	log     *logging.Logger
}

// New creates a new shutdown manager
func New(timeout time.Duration, logger *logging.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		log:     logger,
	}
}

// Register adds a shutdown function.
// Functions run in reverse registration order (LIFO).
func (m *Manager) Register(fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, fn)
}

// Shutdown runs every registered function once and returns their errors joined
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			m.log.Warn("Shutdown step failed", map[string]interface{}{"step": i, "error": err.Error()})
			errs = append(errs, err)
		}
	}

	m.log.Debug("Graceful shutdown complete")
	return errors.Join(errs...)
}

// WaitWithContext blocks until SIGINT/SIGTERM or ctx is done, then shuts down
func (m *Manager) WaitWithContext(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		m.log.Info("Received signal, shutting down", map[string]interface{}{"signal": sig.String()})
	case <-ctx.Done():
	}
	return m.Shutdown()
}

// StopHTTPServer creates a shutdown function for http.Server
func StopHTTPServer(server interface{ Shutdown(context.Context) error }, name string) Func {
	return func(ctx context.Context) error {
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop %s server: %w", name, err)
		}
		return nil
	}
}

// WaitFor creates a shutdown function that polls check until it reports true
func WaitFor(check func() bool, pollInterval time.Duration, resourceName string) Func {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			if check() {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("timeout waiting for %s: %w", resourceName, ctx.Err())
			case <-ticker.C:
			}
		}
	}
}

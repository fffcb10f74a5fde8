package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// SignalHandler cancels the in-flight hook operation on SIGINT/SIGTERM.
// The hook process is killed through its context; cleanup of the
// response file still runs on the way out.
type SignalHandler struct {
	signals  chan os.Signal
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
	logger   *zap.Logger

	mu       sync.Mutex
	received os.Signal
}

// NewSignalHandler creates a signal handler with the given context cancel
func NewSignalHandler(cancel context.CancelFunc, logger *zap.Logger) *SignalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
		logger:  logger,
	}
}

// Start begins listening for signals. Pass false for notify in unit tests
// to avoid global signal state interactions.
func (h *SignalHandler) Start(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	started := make(chan struct{})
	go func() {
		defer close(h.done)
		close(started)

		select {
		case sig := <-h.signals:
			h.mu.Lock()
			h.received = sig
			h.mu.Unlock()

			h.logger.Warn("received signal, cancelling hook operation", zap.String("signal", sig.String()))
			if h.cancel != nil {
				h.cancel()
			}
		case <-h.stopCh:
		}
	}()

	<-started
}

// Received returns the signal that triggered cancellation, or nil.
func (h *SignalHandler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening and waits for the handler goroutine to exit
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	<-h.done
}

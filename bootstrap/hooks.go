package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs while the host starts or stops.
type Hook func(ctx context.Context) error

// OnStarted registers hooks that run after the application components are
// started.
func (h *Host) OnStarted(hooks ...Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStarted = append(h.onStarted, hooks...)
}

// OnStopping registers hooks that run at the beginning of shutdown, before
// the components are stopped.
func (h *Host) OnStopping(hooks ...Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStopping = append(h.onStopping, hooks...)
}

// OnStopped registers hooks that run after the components are stopped.
func (h *Host) OnStopped(hooks ...Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStopped = append(h.onStopped, hooks...)
}

// runHooks executes a slice of hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if h == nil {
			continue
		}
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}

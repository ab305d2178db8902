package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/logger"
)

// Options are bound from the "demo" configuration section.
type Options struct {
	Greeting string        `mapstructure:"greeting" validate:"required"`
	Audience string        `mapstructure:"audience" validate:"required"`
	Interval time.Duration `mapstructure:"interval" validate:"min=0"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Greeting: "Hello", Audience: "world", Interval: 10 * time.Second}
}

// Greeter builds greetings.
type Greeter struct {
	greeting string
	suffix   string
}

// NewGreeter creates a greeter.
func NewGreeter(greeting string) *Greeter {
	return &Greeter{greeting: greeting}
}

// Greet returns a greeting for who.
func (g *Greeter) Greet(who string) string {
	return fmt.Sprintf("%s, %s%s", g.greeting, who, g.suffix)
}

// heartbeat logs a greeting at start and then every interval.
type heartbeat struct {
	greeter  *Greeter
	audience string
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	beats  int
}

func newHeartbeat(g *Greeter, opts Options, log *logger.Logger) *heartbeat {
	return &heartbeat{greeter: g, audience: opts.Audience, interval: opts.Interval, log: log}
}

func (h *heartbeat) Name() string { return "heartbeat" }

func (h *heartbeat) Start(ctx context.Context) error {
	h.log = h.log.WithContext(ctx)
	h.beat()
	if h.interval <= 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.beat()
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (h *heartbeat) Stop(ctx context.Context) error {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *heartbeat) Health(ctx context.Context) component.Health {
	h.mu.Lock()
	defer h.mu.Unlock()
	return component.Health{
		Name:    h.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d beats", h.beats),
	}
}

func (h *heartbeat) Describe() component.Description {
	return component.Description{Name: h.Name(), Type: "worker", Details: "every " + h.interval.String()}
}

func (h *heartbeat) beat() {
	h.mu.Lock()
	h.beats++
	h.mu.Unlock()
	h.log.Info(h.greeter.Greet(h.audience))
}

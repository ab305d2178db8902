package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/startup"
	"github.com/kbukum/hostkit/version"
)

// Host is a built application host. The host services hold what the
// builder registered; the application services add what the startup
// registered and exist once the host is initialized.
type Host struct {
	id            string
	options       *HostOptions
	env           *Environment
	config        *config.Configuration
	hostServices  *di.Provider
	appRegistry   *di.Registry
	loggerFactory *logger.Factory
	telemetry     *observability.Telemetry
	report        *extension.Report
	startupErrors error
	log           *logger.Logger

	mu          sync.Mutex
	initialized bool
	initErr     error
	appServices *di.Provider
	app         *application.Builder
	started     bool
	stopped     bool
	startedAt   time.Time
	initTime    time.Duration

	onStarted  []Hook
	onStopping []Hook
	onStopped  []Hook
}

type hostParams struct {
	options       *HostOptions
	config        *config.Configuration
	hostServices  *di.Provider
	appRegistry   *di.Registry
	loggerFactory *logger.Factory
	telemetry     *observability.Telemetry
	report        *extension.Report
	startupErrors error
}

func newHost(p hostParams) *Host {
	id := uuid.NewString()
	env, _ := di.TryResolve[*Environment](p.hostServices, EnvironmentKey)
	return &Host{
		id:            id,
		options:       p.options,
		env:           env,
		config:        p.config,
		hostServices:  p.hostServices,
		appRegistry:   p.appRegistry,
		loggerFactory: p.loggerFactory,
		telemetry:     p.telemetry,
		report:        p.report,
		startupErrors: p.startupErrors,
		log: p.loggerFactory.Logger("hostkit.host").WithFields(logger.Fields(
			logger.FieldHostID, id,
		)),
	}
}

// ID returns the unique identifier of this host instance.
func (h *Host) ID() string { return h.id }

// Services returns the application services, or nil before a successful
// initialization.
func (h *Host) Services() *di.Provider {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.appServices
}

// HostServices returns the services registered by the builder.
func (h *Host) HostServices() *di.Provider { return h.hostServices }

func (h *Host) Options() *HostOptions                 { return h.options }
func (h *Host) Configuration() *config.Configuration { return h.config }
func (h *Host) Environment() *Environment             { return h.env }

// StartupErrors returns the captured hosting startup failures, or nil.
func (h *Host) StartupErrors() error { return h.startupErrors }

// ExtensionReport returns the outcome of every hosting startup.
func (h *Host) ExtensionReport() *extension.Report { return h.report }

// InitializationError returns the captured initialization failure, or nil.
func (h *Host) InitializationError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initErr
}

// Application returns the configured application builder, or nil before a
// successful initialization.
func (h *Host) Application() *application.Builder {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.app
}

// Initialize resolves and runs the startup: its ConfigureServices fills the
// application registry, the application services are built, and Configure
// sets up the application. It runs once; later calls return the first
// result.
func (h *Host) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized {
		return h.initErr
	}
	h.initialized = true

	start := time.Now()
	ctx, span := h.telemetry.StartSpan(ctx, observability.SpanHostInitialize,
		trace.WithAttributes(observability.AttrHostID.String(h.id)))
	h.initErr = h.initialize(ctx)
	h.initTime = time.Since(start)
	observability.EndSpan(span, h.initErr)

	if h.initErr == nil {
		h.log.Info("Host initialized", logger.DurationFields("Initialize", h.initTime))
	}
	return h.initErr
}

func (h *Host) initialize(ctx context.Context) error {
	if !h.hostServices.Contains(startup.Key) {
		return errors.InvalidOperation("no startup configured: call UseStartup, UseStartupType or Configure, or set " +
			EnvPrefix + "STARTUPASSEMBLY")
	}
	s, err := di.Resolve[startup.Startup](h.hostServices, startup.Key)
	if err != nil {
		return err
	}

	if err := s.ConfigureServices(h.appRegistry); err != nil {
		return fmt.Errorf("configuring application services: %w", err)
	}
	services, err := providerFromFactory(h.appRegistry)
	if err != nil {
		return err
	}

	factory, err := di.Resolve[application.Factory](services, application.FactoryKey)
	if err != nil {
		_ = services.Close()
		return err
	}
	app := factory.CreateBuilder(services, h.loggerFactory.Logger("hostkit.application"))
	app.SetProperty(application.PropertyApplicationName, h.options.ApplicationName)
	app.SetProperty(application.PropertyEnvironment, h.options.Environment)
	app.SetProperty(application.PropertyHostID, h.id)

	if err := s.Configure(app); err != nil {
		_ = services.Close()
		return fmt.Errorf("configuring application: %w", err)
	}
	if err := app.Build(); err != nil {
		_ = services.Close()
		return fmt.Errorf("building application: %w", err)
	}

	h.appServices = services
	h.app = app
	h.log.Debug("Application configured", logger.Fields(
		"services", len(services.Registrations()),
		"components", app.Components().Len(),
	))
	return nil
}

// Start initializes the host if needed, starts the application components
// and runs the OnStarted hooks. A captured initialization failure is
// returned here; captured hosting startup failures are logged. Components
// and hooks receive a context carrying the host ID.
func (h *Host) Start(ctx context.Context) error {
	_, err := h.begin(ctx)
	return err
}

// begin runs Start. owned is false only when another call already started
// the host.
func (h *Host) begin(ctx context.Context) (owned bool, err error) {
	ctx = logger.ContextWithHostID(ctx, h.id)
	if err := h.Initialize(ctx); err != nil {
		return true, err
	}
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return false, errors.InvalidOperation("the host is already started")
	}
	h.started = true
	app := h.app
	hooks := append([]Hook(nil), h.onStarted...)
	h.mu.Unlock()

	ctx, span := h.telemetry.StartSpan(ctx, observability.SpanHostStart,
		trace.WithAttributes(observability.AttrHostID.String(h.id)))
	err = h.start(ctx, app, hooks)
	observability.EndSpan(span, err)
	return true, err
}

func (h *Host) start(ctx context.Context, app *application.Builder, hooks []Hook) error {
	h.log.Info("Starting host", logger.Fields(
		logger.FieldEnvironment, h.options.Environment,
		"application", h.options.ApplicationName,
		"version", version.GetShortVersion(),
	))
	for _, o := range h.report.Failed() {
		h.log.Warn("Hosting startup not applied", logger.MergeWithError(
			logger.Fields(logger.FieldExtension, o.Identifier), o.Err))
	}
	if err := app.Components().StartAll(ctx); err != nil {
		return fmt.Errorf("starting components: %w", err)
	}
	if err := runHooks(ctx, hooks); err != nil {
		return fmt.Errorf("started hook failed: %w", err)
	}

	h.mu.Lock()
	h.startedAt = time.Now()
	h.mu.Unlock()
	h.log.Info("Host started")
	return nil
}

// Run starts the host and blocks until ctx is done or the process receives
// SIGINT or SIGTERM, then shuts the host down. When starting fails, the
// components already started are stopped and the providers closed before
// Run returns.
func (h *Host) Run(ctx context.Context) error {
	if owned, err := h.begin(ctx); err != nil {
		if !owned {
			return err
		}
		if serr := h.Shutdown(context.Background()); serr != nil {
			return errors.NewAggregate("host start failed", []error{err, serr})
		}
		return err
	}
	h.log.Info("Host running, waiting for shutdown signal")
	h.WaitForSignal(ctx)
	return h.Shutdown(context.Background())
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (h *Host) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.log.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		h.log.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the host within the configured shutdown timeout: OnStopping
// hooks, components in reverse order, OnStopped hooks, then the service
// providers. Every step runs; the errors are aggregated. It is safe to call
// more than once.
func (h *Host) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil
	}
	h.stopped = true
	started := h.started
	app := h.app
	stopping := append([]Hook(nil), h.onStopping...)
	stopped := append([]Hook(nil), h.onStopped...)
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(logger.ContextWithHostID(ctx, h.id), h.options.ShutdownTimeout)
	defer cancel()
	ctx, span := h.telemetry.StartSpan(ctx, observability.SpanHostStop,
		trace.WithAttributes(observability.AttrHostID.String(h.id)))

	h.log.Info("Shutting down host", logger.Fields("timeout", h.options.ShutdownTimeout.String()))

	var errs []error
	if started {
		if err := runHooks(ctx, stopping); err != nil {
			errs = append(errs, fmt.Errorf("stopping hook failed: %w", err))
		}
		if app != nil {
			if err := app.Components().StopAll(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if err := runHooks(ctx, stopped); err != nil {
			errs = append(errs, fmt.Errorf("stopped hook failed: %w", err))
		}
	}
	if err := h.dispose(); err != nil {
		errs = append(errs, err)
	}

	err := errors.NewAggregate("host shutdown failed", errs)
	observability.EndSpan(span, err)
	if err != nil {
		h.log.Error("Host shutdown completed with errors", logger.ErrorFields("Shutdown", err))
		return err
	}
	h.log.Info("Host shutdown complete")
	return nil
}

// dispose closes the application services, then the host services.
func (h *Host) dispose() error {
	h.mu.Lock()
	services := h.appServices
	h.mu.Unlock()

	var errs []error
	if services != nil {
		if err := services.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.hostServices.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.NewAggregate("closing providers failed", errs)
}

// Health reports the health of the application components.
func (h *Host) Health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(h.options.ApplicationName, version.GetShortVersion())
	app := h.Application()
	if err := h.InitializationError(); err != nil {
		sh.AddComponent(component.Health{Name: "startup", Status: component.StatusUnhealthy, Message: err.Error()})
	}
	if app == nil {
		return sh
	}
	for _, ch := range app.Components().HealthAll(ctx) {
		sh.AddComponent(ch)
	}
	return sh
}

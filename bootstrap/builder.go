package bootstrap

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/startup"
	"github.com/kbukum/hostkit/version"
)

type buildState int

const (
	stateUnbuilt buildState = iota
	stateBuilding
	stateBuilt
	stateFailed
)

func (s buildState) String() string {
	switch s {
	case stateUnbuilt:
		return "unbuilt"
	case stateBuilding:
		return "building"
	case stateBuilt:
		return "built"
	default:
		return "failed"
	}
}

// HostBuilder assembles a Host. It builds at most one host and is not safe
// for concurrent use.
//
// Fluent methods cannot return errors; a misuse such as a nil argument is
// recorded and returned by Build.
type HostBuilder struct {
	config        *config.Configuration
	loggerFactory *logger.Factory
	extensions    *extension.Catalog[*HostBuilder]
	startups      *startup.Catalog
	telemetry     *observability.Telemetry
	basePath      string
	entryName     string

	configureLogging  []func(*logger.Factory) error
	configureServices []func(*di.Registry) error

	options *HostOptions
	report  *extension.Report
	errs    []error
	state   buildState
}

// NewHostBuilder creates a builder whose configuration starts with the
// HOSTKIT_ environment variables.
func NewHostBuilder(opts ...Option) *HostBuilder {
	o := resolveOptions(opts)

	b := &HostBuilder{
		extensions: o.extensions,
		startups:   o.startups,
		telemetry:  o.telemetry,
		basePath:   o.basePath,
		entryName:  o.entryName,
	}
	if b.extensions == nil {
		b.extensions = Extensions
	}
	if b.startups == nil {
		b.startups = Startups
	}
	if b.basePath == "" {
		if wd, err := os.Getwd(); err == nil {
			b.basePath = wd
		}
	}
	if b.entryName == "" {
		b.entryName = version.EntryName()
	}
	if b.telemetry == nil {
		tel, err := observability.NewTelemetry(nil, nil)
		if err != nil {
			b.record(err)
			tel, _ = observability.NewTelemetry(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
		}
		b.telemetry = tel
	}

	cfg, err := config.New(append([]config.Source{config.EnvSource(EnvPrefix)}, o.sources...)...)
	if err != nil {
		b.record(err)
		cfg, _ = config.New()
	}
	b.config = cfg
	return b
}

func (b *HostBuilder) record(err error) {
	b.errs = append(b.errs, err)
}

// UseSetting writes a configuration value. Later writes win.
func (b *HostBuilder) UseSetting(key, value string) *HostBuilder {
	if err := b.config.Set(key, value); err != nil {
		b.record(err)
	}
	return b
}

// GetSetting returns a configuration value, or "" when unset.
func (b *HostBuilder) GetSetting(key string) string {
	v, _ := b.config.Get(key)
	return v
}

// Configuration returns the builder's configuration.
func (b *HostBuilder) Configuration() *config.Configuration { return b.config }

// Options returns the host options, available once Build has started.
func (b *HostBuilder) Options() *HostOptions { return b.options }

// UseLoggerFactory replaces the default logging factory.
func (b *HostBuilder) UseLoggerFactory(f *logger.Factory) *HostBuilder {
	if f == nil {
		b.record(errors.NullArgument("loggerFactory"))
		return b
	}
	b.loggerFactory = f
	return b
}

// ConfigureLogging queues a callback run with the logging factory after the
// hosting startups are loaded.
func (b *HostBuilder) ConfigureLogging(fn func(*logger.Factory) error) *HostBuilder {
	if fn == nil {
		b.record(errors.NullArgument("configureLogging"))
		return b
	}
	b.configureLogging = append(b.configureLogging, fn)
	return b
}

// ConfigureServices queues a callback run with the host registry after the
// startup is registered. Callbacks run in the order they were added and may
// override any registration.
func (b *HostBuilder) ConfigureServices(fn func(*di.Registry) error) *HostBuilder {
	if fn == nil {
		b.record(errors.NullArgument("configureServices"))
		return b
	}
	b.configureServices = append(b.configureServices, fn)
	return b
}

// UseEnvironment sets the environment name.
func (b *HostBuilder) UseEnvironment(name string) *HostBuilder {
	return b.UseSetting(KeyEnvironment, name)
}

// UseContentRoot sets the content root, relative to the base path unless rooted.
func (b *HostBuilder) UseContentRoot(path string) *HostBuilder {
	return b.UseSetting(KeyContentRoot, path)
}

// UseStartup selects the startup assembly. The assembly also names the
// application.
func (b *HostBuilder) UseStartup(assembly string) *HostBuilder {
	if strings.TrimSpace(assembly) == "" {
		b.record(errors.InvalidArgument("assembly", "must not be empty"))
		return b
	}
	return b.UseSetting(KeyApplicationName, assembly).UseSetting(KeyStartupAssembly, assembly)
}

// UseStartupType registers t as the startup, overriding UseStartup.
// Errors describing t surface when the host initializes.
func (b *HostBuilder) UseStartupType(t startup.Type) *HostBuilder {
	return b.ConfigureServices(func(services *di.Registry) error {
		if err := startup.RegisterType(services, t, b.options.Environment); err != nil {
			b.logger().Warn("Startup type deferred", logger.ErrorFields("UseStartupType", err))
		}
		return nil
	})
}

// Configure registers a startup made of fn only.
func (b *HostBuilder) Configure(fn func(*application.Builder) error) *HostBuilder {
	if fn == nil {
		b.record(errors.NullArgument("configure"))
		return b
	}
	return b.ConfigureServices(func(services *di.Registry) error {
		return startup.RegisterDelegate(services, fn)
	})
}

// CaptureStartupErrors keeps a failing host instead of failing Build.
func (b *HostBuilder) CaptureStartupErrors(capture bool) *HostBuilder {
	return b.UseSetting(KeyCaptureStartupErrors, strconv.FormatBool(capture))
}

// PreventHostingStartup skips every hosting startup module.
func (b *HostBuilder) PreventHostingStartup(prevent bool) *HostBuilder {
	return b.UseSetting(KeyPreventHostingStartup, strconv.FormatBool(prevent))
}

// UseHostingStartupAssemblies names the hosting startup modules to load.
func (b *HostBuilder) UseHostingStartupAssemblies(ids ...string) *HostBuilder {
	return b.UseSetting(KeyHostingStartupAssemblies, strings.Join(ids, ";"))
}

// UseShutdownTimeout bounds Shutdown, in whole seconds.
func (b *HostBuilder) UseShutdownTimeout(d time.Duration) *HostBuilder {
	if d < 0 {
		b.record(errors.InvalidArgument("timeout", "must not be negative"))
		return b
	}
	return b.UseSetting(KeyShutdownTimeoutSeconds, strconv.Itoa(int(d/time.Second)))
}

// Build assembles and initializes the host. It can be called only once.
//
// With startup error capture disabled, a failing hosting startup or a
// failing initialization fails Build. With capture enabled, Build returns
// the host and the errors are reported by StartupErrors and
// InitializationError.
func (b *HostBuilder) Build(ctx context.Context) (*Host, error) {
	if b.state != stateUnbuilt {
		return nil, errors.InvalidOperation("the host builder can build only one host").
			WithDetail("state", b.state.String())
	}
	b.state = stateBuilding

	start := time.Now()
	ctx, span := b.telemetry.StartSpan(ctx, observability.SpanHostBuild)

	host, err := b.build(ctx)
	if b.options != nil {
		span.SetAttributes(
			observability.AttrApplicationName.String(b.options.ApplicationName),
			observability.AttrEnvironment.String(b.options.Environment),
			observability.AttrStartupAssembly.String(b.options.StartupAssembly),
		)
	}
	status := observability.StatusSucceeded
	switch {
	case err != nil:
		status = observability.StatusFailed
		b.state = stateFailed
	case host.StartupErrors() != nil || host.InitializationError() != nil:
		status = observability.StatusCaptured
		b.state = stateBuilt
	default:
		b.state = stateBuilt
	}
	span.SetAttributes(observability.AttrStatus.String(status))
	b.telemetry.RecordBuild(ctx, status, time.Since(start))
	observability.EndSpan(span, err)

	if err != nil {
		b.logger().Error("Host build failed", logger.ErrorFields("Build", err))
		return nil, err
	}
	return host, nil
}

func (b *HostBuilder) build(ctx context.Context) (*Host, error) {
	if err := b.usageError(); err != nil {
		return nil, err
	}

	hostRegistry, err := b.buildCommonServices(ctx)
	if err != nil {
		return nil, err
	}
	extensionErr := b.report.Err()
	if extensionErr != nil && !b.options.CaptureStartupErrors {
		return nil, extensionErr
	}

	appRegistry := hostRegistry.Clone()
	hostServices, err := providerFromFactory(hostRegistry)
	if err != nil {
		return nil, err
	}

	factory, err := di.Resolve[*logger.Factory](hostServices, LoggerFactoryKey)
	if err != nil {
		_ = hostServices.Close()
		return nil, err
	}
	if err := appRegistry.Replace(di.Instance(LoggerFactoryKey, factory)); err != nil {
		_ = hostServices.Close()
		return nil, err
	}

	b.config.Freeze()
	host := newHost(hostParams{
		options:       b.options,
		config:        b.config,
		hostServices:  hostServices,
		appRegistry:   appRegistry,
		loggerFactory: factory,
		telemetry:     b.telemetry,
		report:        b.report,
		startupErrors: extensionErr,
	})
	if extensionErr != nil {
		host.log.Warn("Hosting startups failed, errors captured", logger.ErrorFields("LoadExtensions", extensionErr))
	}

	if err := host.Initialize(ctx); err != nil {
		if !b.options.CaptureStartupErrors {
			_ = host.dispose()
			return nil, err
		}
		host.log.Error("Host initialization failed, error captured", logger.ErrorFields("Initialize", err))
	}
	return host, nil
}

// usageError returns the recorded misuse, if any.
func (b *HostBuilder) usageError() error {
	switch len(b.errs) {
	case 0:
		return nil
	case 1:
		return b.errs[0]
	default:
		return errors.NewAggregate("host builder misuse", b.errs)
	}
}

func (b *HostBuilder) logger() *logger.Logger {
	if b.loggerFactory == nil {
		return logger.GetGlobalLogger().WithComponent("hostkit.builder")
	}
	return b.loggerFactory.Logger("hostkit.builder")
}

// providerFromFactory builds r with the ProviderFactory it registers.
func providerFromFactory(r *di.Registry) (*di.Provider, error) {
	if !r.Contains(ProviderFactoryKey) {
		return r.Build(), nil
	}
	temp := r.Build()
	defer func() { _ = temp.Close() }()

	pf, err := di.Resolve[di.ProviderFactory](temp, ProviderFactoryKey)
	if err != nil {
		return nil, err
	}
	return pf.CreateProvider(r), nil
}

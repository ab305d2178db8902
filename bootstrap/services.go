package bootstrap

import (
	"context"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/startup"
)

// buildCommonServices fills the host registry in a fixed order:
//
//  1. environment, options and configuration
//  2. the logging factory
//  3. hosting startups, which may call back into the builder; a factory
//     they install replaces the one from step 2
//  4. ConfigureLogging callbacks
//  5. application builder factory, options binder, provider factory, telemetry
//  6. the startup, registered but not constructed
//  7. ConfigureServices callbacks
//
// Hosting startup failures are left on b.report; every other error is fatal.
func (b *HostBuilder) buildCommonServices(ctx context.Context) (*di.Registry, error) {
	opts, err := NewHostOptions(b.config, b.entryName)
	if err != nil {
		return nil, err
	}
	b.options = opts

	env := &Environment{
		ApplicationName: opts.ApplicationName,
		EnvironmentName: opts.Environment,
		ContentRootPath: ResolveContentRoot(opts.ContentRoot, b.basePath),
	}

	services := di.NewRegistry()
	services.MustAdd(di.Instance(EnvironmentKey, env))
	services.MustAdd(di.Instance(OptionsKey, opts))
	services.MustAdd(di.Instance(ConfigurationKey, b.config))

	if b.loggerFactory == nil {
		b.loggerFactory = logger.NewDefaultFactory(opts.ApplicationName)
	}
	services.MustAdd(di.Instance(LoggerFactoryKey, b.loggerFactory))

	log := b.logger()
	ids := opts.FinalExtensionIdentifiers()
	loader := extension.NewLoader(b.extensions,
		extension.WithLogger(log),
		extension.WithTracer(b.telemetry.Tracer))
	b.report = loader.Load(ctx, ids, b)
	b.telemetry.RecordExtensions(ctx, len(b.report.Succeeded()), len(b.report.Failed()))

	// Hosting startups may misuse the builder too.
	if err := b.usageError(); err != nil {
		return nil, err
	}
	// A hosting startup may have replaced the factory or changed settings.
	if err := services.Replace(di.Instance(LoggerFactoryKey, b.loggerFactory)); err != nil {
		return nil, err
	}
	opts.refresh(b.config)

	for _, fn := range b.configureLogging {
		if err := fn(b.loggerFactory); err != nil {
			return nil, err
		}
	}
	log = b.logger()

	services.MustAdd(di.Instance(application.FactoryKey, application.Factory(application.DefaultFactory{})))
	services.MustAdd(di.Instance(BinderKey, config.Binder(b.config)))
	services.MustAdd(di.Instance(ProviderFactoryKey, di.ProviderFactory(di.DefaultProviderFactory{})))
	services.MustAdd(di.Instance(TelemetryKey, b.telemetry))
	services.MustAdd(di.NewTransient(LoggerKey, func(r di.Resolver) (any, error) {
		f, err := di.Resolve[*logger.Factory](r, LoggerFactoryKey)
		if err != nil {
			return nil, err
		}
		return f.Logger(opts.ApplicationName), nil
	}))

	if opts.StartupAssembly != "" {
		if err := startup.Register(services, b.startups, opts.StartupAssembly, opts.Environment); err != nil {
			log.Warn("Startup resolution deferred", logger.MergeWithError(
				logger.Fields(logger.FieldAssembly, opts.StartupAssembly, logger.FieldEnvironment, opts.Environment), err))
		}
	}

	for _, fn := range b.configureServices {
		if err := fn(services); err != nil {
			return nil, err
		}
	}

	log.Debug("Host services registered", logger.Fields(
		"count", services.Len(),
		"extensions", len(ids),
	))
	return services, nil
}

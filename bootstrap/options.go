package bootstrap

import (
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/startup"
)

// Option configures the HostBuilder during creation.
type Option func(*builderOptions)

// builderOptions collects all option values before applying to HostBuilder.
type builderOptions struct {
	extensions *extension.Catalog[*HostBuilder]
	startups   *startup.Catalog
	telemetry  *observability.Telemetry
	basePath   string
	entryName  string
	sources    []config.Source
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *builderOptions {
	o := &builderOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithExtensionCatalog sets the catalog hosting startups are looked up in.
// Defaults to Extensions.
func WithExtensionCatalog(c *extension.Catalog[*HostBuilder]) Option {
	return func(o *builderOptions) {
		o.extensions = c
	}
}

// WithStartupCatalog sets the catalog startup assemblies are looked up in.
// Defaults to Startups.
func WithStartupCatalog(c *startup.Catalog) Option {
	return func(o *builderOptions) {
		o.startups = c
	}
}

// WithBasePath sets the directory relative content roots are joined to.
// Defaults to the working directory.
func WithBasePath(path string) Option {
	return func(o *builderOptions) {
		o.basePath = path
	}
}

// WithEntryName sets the application name used when none is configured.
// Defaults to the program name.
func WithEntryName(name string) Option {
	return func(o *builderOptions) {
		o.entryName = name
	}
}

// WithTelemetry sets the tracer and instruments of the build.
func WithTelemetry(t *observability.Telemetry) Option {
	return func(o *builderOptions) {
		o.telemetry = t
	}
}

// WithConfigurationSources adds sources layered over the environment
// variables, in order.
func WithConfigurationSources(sources ...config.Source) Option {
	return func(o *builderOptions) {
		o.sources = append(o.sources, sources...)
	}
}

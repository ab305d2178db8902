package bootstrap

import (
	"time"

	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
)

// EnvPrefix filters the environment variables read into the host
// configuration. HOSTKIT_ENVIRONMENT sets KeyEnvironment.
const EnvPrefix = "HOSTKIT_"

// Recognized configuration keys. Keys are case-insensitive.
const (
	KeyApplicationName                 = "applicationName"
	KeyEnvironment                     = "environment"
	KeyContentRoot                     = "contentRoot"
	KeyStartupAssembly                 = "startupAssembly"
	KeyHostingStartupAssemblies        = "hostingStartupAssemblies"
	KeyHostingStartupExcludeAssemblies = "hostingStartupExcludeAssemblies"
	KeyPreventHostingStartup           = "preventHostingStartup"
	KeyCaptureStartupErrors            = "captureStartupErrors"
	KeyDetailedErrors                  = "detailedErrors"
	KeyShutdownTimeoutSeconds          = "shutdownTimeoutSeconds"
)

// Defaults for absent settings.
const (
	DefaultEnvironment     = "Production"
	DefaultShutdownTimeout = 5 * time.Second
)

// Well-known environment names.
const (
	EnvironmentDevelopment = "Development"
	EnvironmentStaging     = "Staging"
	EnvironmentProduction  = "Production"
)

// Registry keys of the services every host registers.
var (
	EnvironmentKey     = di.KeyOf[*Environment]()
	OptionsKey         = di.KeyOf[*HostOptions]()
	ConfigurationKey   = di.KeyOf[*config.Configuration]()
	BinderKey          = di.KeyOf[config.Binder]()
	LoggerFactoryKey   = di.KeyOf[*logger.Factory]()
	LoggerKey          = di.KeyOf[*logger.Logger]()
	ProviderFactoryKey = di.KeyOf[di.ProviderFactory]()
	TelemetryKey       = di.KeyOf[*observability.Telemetry]()
)

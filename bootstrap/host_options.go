package bootstrap

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/util"
	"github.com/kbukum/hostkit/validation"
)

// HostOptions is the snapshot of the recognized settings, taken once when
// the host is built.
type HostOptions struct {
	ApplicationName string `mapstructure:"applicationName" validate:"required"`
	Environment     string `mapstructure:"environment" validate:"required"`
	ContentRoot     string `mapstructure:"contentRoot"`
	StartupAssembly string `mapstructure:"startupAssembly"`

	HostingStartupAssemblies        []string `mapstructure:"hostingStartupAssemblies"`
	HostingStartupExcludeAssemblies []string `mapstructure:"hostingStartupExcludeAssemblies"`
	PreventHostingStartup           bool     `mapstructure:"preventHostingStartup"`

	CaptureStartupErrors bool          `mapstructure:"captureStartupErrors"`
	DetailedErrors       bool          `mapstructure:"detailedErrors"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdownTimeout" validate:"min=0"`
}

// NewHostOptions reads the recognized keys from cfg. The application name
// falls back to appNameFallback when unset.
func NewHostOptions(cfg *config.Configuration, appNameFallback string) (*HostOptions, error) {
	if cfg == nil {
		return nil, errors.NullArgument("configuration")
	}
	get := func(key string) string {
		v, _ := cfg.Get(key)
		return strings.TrimSpace(v)
	}

	o := &HostOptions{
		ApplicationName:                 util.Coalesce(get(KeyApplicationName), appNameFallback),
		Environment:                     util.Coalesce(get(KeyEnvironment), DefaultEnvironment),
		ContentRoot:                     get(KeyContentRoot),
		StartupAssembly:                 get(KeyStartupAssembly),
		HostingStartupAssemblies:        extension.ParseIdentifiers(get(KeyHostingStartupAssemblies)),
		HostingStartupExcludeAssemblies: extension.ParseIdentifiers(get(KeyHostingStartupExcludeAssemblies)),
		PreventHostingStartup:           util.ParseBool(get(KeyPreventHostingStartup)),
		CaptureStartupErrors:            util.ParseBool(get(KeyCaptureStartupErrors)),
		DetailedErrors:                  util.ParseBool(get(KeyDetailedErrors)),
		ShutdownTimeout:                 DefaultShutdownTimeout,
	}
	v := validation.New()
	if raw := get(KeyShutdownTimeoutSeconds); raw != "" {
		seconds, err := strconv.Atoi(raw)
		v.Custom(err == nil, KeyShutdownTimeoutSeconds, "must be an integer, got "+raw).
			Min(KeyShutdownTimeoutSeconds, seconds, 0)
		o.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	if err := validation.Validate(o); err != nil {
		return nil, err
	}
	return o, nil
}

// refresh re-reads the settings hosting startups may change. The keys that
// decide what is loaded keep the values read by NewHostOptions.
func (o *HostOptions) refresh(cfg *config.Configuration) {
	if v, ok := cfg.Get(KeyDetailedErrors); ok {
		o.DetailedErrors = util.ParseBool(v)
	}
}

// FinalExtensionIdentifiers returns the hosting startup identifiers to load:
// none when hosting startups are prevented, otherwise the included ones
// minus the excluded ones.
func (o *HostOptions) FinalExtensionIdentifiers() []string {
	if o.PreventHostingStartup {
		return []string{}
	}
	return extension.FinalIdentifiers(o.HostingStartupAssemblies, o.HostingStartupExcludeAssemblies)
}

// ResolveContentRoot returns basePath for an empty content root, a rooted
// content root unchanged, and a relative one joined to basePath.
func ResolveContentRoot(contentRoot, basePath string) string {
	switch {
	case contentRoot == "":
		return basePath
	case filepath.IsAbs(contentRoot):
		return contentRoot
	default:
		return filepath.Join(basePath, contentRoot)
	}
}

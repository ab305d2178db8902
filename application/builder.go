package application

import (
	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

// Well-known property keys set by the host.
const (
	PropertyApplicationName = "applicationName"
	PropertyEnvironment     = "environment"
	PropertyHostID          = "hostId"
)

// Builder collects what a startup configures for the running application.
// It is used by a single goroutine during host initialization.
type Builder struct {
	services   di.Resolver
	log        *logger.Logger
	properties map[string]any
	components *component.Registry
	onBuild    []func() error
	built      bool
}

// NewBuilder creates a builder over the application services.
func NewBuilder(services di.Resolver, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Builder{
		services:   services,
		log:        log,
		properties: make(map[string]any),
		components: component.NewRegistry(log),
	}
}

// ApplicationServices returns the application service provider.
func (b *Builder) ApplicationServices() di.Resolver { return b.services }

// Logger returns the builder's logger.
func (b *Builder) Logger() *logger.Logger { return b.log }

// Property returns a property set by an earlier configure step.
func (b *Builder) Property(key string) (any, bool) {
	v, ok := b.properties[key]
	return v, ok
}

// SetProperty stores a property for later configure steps.
func (b *Builder) SetProperty(key string, value any) {
	b.properties[key] = value
}

// Properties returns a copy of all properties.
func (b *Builder) Properties() map[string]any {
	out := make(map[string]any, len(b.properties))
	for k, v := range b.properties {
		out[k] = v
	}
	return out
}

// Use registers a component started with the host.
func (b *Builder) Use(c component.Component) error {
	if b.built {
		return errors.InvalidOperation("application is already built")
	}
	return b.components.Register(c)
}

// Components returns the component registry.
func (b *Builder) Components() *component.Registry { return b.components }

// OnBuild queues a step that runs when the application is built.
func (b *Builder) OnBuild(fn func() error) {
	if fn != nil {
		b.onBuild = append(b.onBuild, fn)
	}
}

// Build runs the queued steps in order and stops at the first error. It can
// run only once.
func (b *Builder) Build() error {
	if b.built {
		return errors.InvalidOperation("application is already built")
	}
	b.built = true
	for _, fn := range b.onBuild {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Built reports whether Build was called.
func (b *Builder) Built() bool { return b.built }

// Factory creates application builders.
type Factory interface {
	CreateBuilder(services di.Resolver, log *logger.Logger) *Builder
}

// DefaultFactory creates builders with NewBuilder.
type DefaultFactory struct{}

// CreateBuilder implements Factory.
func (DefaultFactory) CreateBuilder(services di.Resolver, log *logger.Logger) *Builder {
	return NewBuilder(services, log)
}

// FactoryKey is the registry key of the Factory.
var FactoryKey = di.KeyOf[Factory]()

package demo

import (
	"time"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/bootstrap"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/logger"
)

// Startup is the demo startup used outside development.
type Startup struct {
	env    *bootstrap.Environment
	binder config.Binder
	log    *logger.Logger
}

// NewStartup creates the startup from host services.
func NewStartup(env *bootstrap.Environment, binder config.Binder, factory *logger.Factory) *Startup {
	return &Startup{env: env, binder: binder, log: factory.Logger("demo")}
}

// ConfigureServices binds the demo options and registers the greeter.
func (s *Startup) ConfigureServices(services *di.Registry) error {
	opts := DefaultOptions()
	if err := s.binder.Bind("demo", &opts); err != nil {
		return err
	}
	if err := di.AddInstance(services, &opts); err != nil {
		return err
	}
	return di.AddSingleton(services, func(r di.Resolver) (*Greeter, error) {
		g := NewGreeter(opts.Greeting)
		if b, ok := di.TryResolve[*Banner](r, di.KeyOf[*Banner]()); ok {
			g.suffix = b.Suffix
		}
		return g, nil
	})
}

// Configure adds the heartbeat worker.
func (s *Startup) Configure(app *application.Builder) error {
	g, err := di.Get[*Greeter](app.ApplicationServices())
	if err != nil {
		return err
	}
	opts, err := di.Get[*Options](app.ApplicationServices())
	if err != nil {
		return err
	}
	s.log.Info("Configuring demo application", logger.Fields(logger.FieldEnvironment, s.env.EnvironmentName))
	return app.Use(newHeartbeat(g, *opts, s.log))
}

// DevelopmentStartup is picked in the Development environment. It binds
// its methods by convention.
type DevelopmentStartup struct {
	log *logger.Logger
}

// NewDevelopmentStartup creates the development startup.
func NewDevelopmentStartup(factory *logger.Factory) *DevelopmentStartup {
	return &DevelopmentStartup{log: factory.Logger("demo")}
}

// ConfigureServices registers a greeter with development options.
func (s *DevelopmentStartup) ConfigureServices(services *di.Registry) {
	opts := DefaultOptions()
	opts.Greeting = "Hi"
	opts.Interval = 2 * time.Second
	services.MustAdd(di.Instance(di.KeyOf[*Options](), &opts))
	services.MustAdd(di.Instance(di.KeyOf[*Greeter](), NewGreeter(opts.Greeting+" (dev)")))
}

// ConfigureDevelopment receives its dependencies from the application
// services.
func (s *DevelopmentStartup) ConfigureDevelopment(app *application.Builder, g *Greeter, opts *Options) error {
	return app.Use(newHeartbeat(g, *opts, s.log))
}

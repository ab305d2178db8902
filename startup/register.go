package startup

import (
	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
)

// Resolve finds and describes the startup of assembly for env.
func Resolve(c *Catalog, assembly, env string) (*Descriptor, error) {
	t, err := FindStartupType(c, assembly, env)
	if err != nil {
		return nil, err
	}
	return Describe(t, env)
}

// Register installs the startup of assembly under Key. A startup that cannot
// be resolved is registered as a deferred failure and its error is returned
// for reporting; the registry is changed either way. Only a nil registry
// leaves it untouched.
func Register(reg *di.Registry, c *Catalog, assembly, env string) error {
	if reg == nil {
		return errors.NullArgument("registry")
	}
	d, err := Resolve(c, assembly, env)
	if err != nil {
		RegisterDeferred(reg, err)
		return err
	}
	return RegisterDescriptor(reg, d)
}

// RegisterType installs an explicitly chosen startup type.
func RegisterType(reg *di.Registry, t Type, env string) error {
	if reg == nil {
		return errors.NullArgument("registry")
	}
	d, err := Describe(t, env)
	if err != nil {
		RegisterDeferred(reg, err)
		return err
	}
	return RegisterDescriptor(reg, d)
}

// RegisterDescriptor installs d under Key as a singleton.
func RegisterDescriptor(reg *di.Registry, d *Descriptor) error {
	if reg == nil {
		return errors.NullArgument("registry")
	}
	if d == nil {
		return errors.NullArgument("descriptor")
	}
	return reg.Add(di.NewSingleton(Key, d.Factory()))
}

// RegisterDelegate installs a startup that only configures the application.
func RegisterDelegate(reg *di.Registry, configure func(*application.Builder) error) error {
	if reg == nil {
		return errors.NullArgument("registry")
	}
	if configure == nil {
		return errors.NullArgument("configure")
	}
	return reg.Add(di.Instance(Key, Startup(delegateStartup{configure: configure})))
}

// RegisterDeferred installs a startup registration that fails with err
// whenever it is resolved.
func RegisterDeferred(reg *di.Registry, err error) {
	if reg == nil || err == nil {
		return
	}
	reg.MustAdd(di.NewSingleton(Key, func(di.Resolver) (any, error) {
		return nil, err
	}))
}

package startup

import (
	"fmt"
	"reflect"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
)

// Construct builds the startup, resolving constructor parameters from r.
// Convention types are wrapped in an adapter holding their bound methods.
func (d *Descriptor) Construct(r di.Resolver) (Startup, error) {
	instance, err := d.construct(r)
	if err != nil {
		return nil, err
	}
	if d.Formal {
		s, ok := instance.Interface().(Startup)
		if !ok || s == nil {
			return nil, errors.StartupInvalid(d.TypeName, "constructor returned a nil startup")
		}
		return s, nil
	}
	return d.bind(instance), nil
}

// Factory returns a registry factory that constructs the startup.
func (d *Descriptor) Factory() di.Factory {
	return func(r di.Resolver) (any, error) {
		return d.Construct(r)
	}
}

func (d *Descriptor) construct(r di.Resolver) (reflect.Value, error) {
	ft := d.ctor.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		v, err := resolveParam(r, ft.In(i))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("constructing startup %s: %w", d.TypeName, err)
		}
		args[i] = v
	}

	out := d.ctor.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	instance := out[0]
	if isNil(instance) {
		return reflect.Value{}, errors.StartupInvalid(d.TypeName, "constructor returned nil")
	}
	return instance, nil
}

func (d *Descriptor) bind(instance reflect.Value) Startup {
	adapter := &conventionStartup{typeName: d.TypeName}
	if d.ConfigureServicesMethod != "" {
		m := instance.MethodByName(d.ConfigureServicesMethod)
		adapter.configureServices = func(services *di.Registry) error {
			args := make([]reflect.Value, m.Type().NumIn())
			for i := range args {
				args[i] = reflect.ValueOf(services)
			}
			return callResult(m.Call(args))
		}
	}

	m := instance.MethodByName(d.ConfigureMethod)
	adapter.configure = func(app *application.Builder) error {
		mt := m.Type()
		args := make([]reflect.Value, mt.NumIn())
		for i := range args {
			if mt.In(i) == builderType {
				args[i] = reflect.ValueOf(app)
				continue
			}
			v, err := resolveParam(app.ApplicationServices(), mt.In(i))
			if err != nil {
				return fmt.Errorf("%s.%s: %w", d.TypeName, d.ConfigureMethod, err)
			}
			args[i] = v
		}
		return callResult(m.Call(args))
	}
	return adapter
}

// conventionStartup holds the bound methods of a convention startup.
type conventionStartup struct {
	typeName          string
	configureServices func(*di.Registry) error
	configure         func(*application.Builder) error
}

func (c *conventionStartup) ConfigureServices(services *di.Registry) error {
	if c.configureServices == nil {
		return nil
	}
	return c.configureServices(services)
}

func (c *conventionStartup) Configure(app *application.Builder) error {
	return c.configure(app)
}

func (c *conventionStartup) String() string { return c.typeName }

// delegateStartup is a startup made of a Configure function only.
type delegateStartup struct {
	configure func(*application.Builder) error
}

func (delegateStartup) ConfigureServices(*di.Registry) error { return nil }

func (d delegateStartup) Configure(app *application.Builder) error {
	return d.configure(app)
}

func resolveParam(r di.Resolver, t reflect.Type) (reflect.Value, error) {
	if r == nil {
		return reflect.Value{}, errors.NullArgument("resolver")
	}
	v, err := r.Resolve(di.KeyFor(t))
	if err != nil {
		return reflect.Value{}, err
	}
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("service %s is %T, not assignable to %s", di.KeyFor(t), v, t)
	}
	return rv, nil
}

func callResult(out []reflect.Value) error {
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return !v.IsValid()
	}
}

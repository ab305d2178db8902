package startup

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
)

// Startup is the formal startup contract.
type Startup interface {
	// ConfigureServices adds the application services.
	ConfigureServices(services *di.Registry) error
	// Configure sets up the application once its services are built.
	Configure(app *application.Builder) error
}

// Key is the registry key of the Startup.
var Key = di.KeyOf[Startup]()

var (
	startupType  = reflect.TypeFor[Startup]()
	errorType    = reflect.TypeFor[error]()
	registryType = reflect.TypeFor[*di.Registry]()
	builderType  = reflect.TypeFor[*application.Builder]()
)

// Descriptor is a validated startup type. Formal descriptors construct a
// Startup directly; convention descriptors name the bound methods.
type Descriptor struct {
	TypeName string
	Formal   bool

	// Set for convention types. ConfigureServicesMethod is empty when the
	// type has none.
	ConfigureServicesMethod string
	ConfigureMethod         string

	ctor reflect.Value
}

// Describe validates t and decides how it is bound for env.
func Describe(t Type, env string) (*Descriptor, error) {
	ctor := reflect.ValueOf(t.New)
	if ctor.Kind() != reflect.Func {
		return nil, errors.StartupInvalid(t.Name, fmt.Sprintf("constructor must be a function, got %T", t.New))
	}
	ft := ctor.Type()
	if ft.IsVariadic() {
		return nil, errors.StartupInvalid(t.Name, "constructor must not be variadic")
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, errors.StartupInvalid(t.Name, "constructor must return the startup and optionally an error")
	}

	d := &Descriptor{TypeName: t.Name, ctor: ctor}
	out := ft.Out(0)
	if out.Implements(startupType) {
		d.Formal = true
		return d, nil
	}

	services, err := findMethod(t.Name, out, "ConfigureServices", env)
	if err != nil {
		return nil, err
	}
	if services != nil {
		if err := checkConventionMethod(t.Name, *services); err != nil {
			return nil, err
		}
		for i := 0; i < methodArity(out, *services); i++ {
			if in := methodParam(out, *services, i); in != registryType {
				return nil, errors.StartupInvalid(t.Name,
					fmt.Sprintf("%s accepts only %s parameters, got %s", services.Name, registryType, in))
			}
		}
		d.ConfigureServicesMethod = services.Name
	}

	configure, err := findMethod(t.Name, out, "Configure", env)
	if err != nil {
		return nil, err
	}
	if configure == nil {
		names := make([]string, 0, 2)
		for _, n := range CandidateNames(env) {
			names = append(names, "Configure"+strings.TrimPrefix(n, "Startup"))
		}
		return nil, errors.StartupInvalid(t.Name,
			fmt.Sprintf("a method named %s could not be found", strings.Join(names, " or ")))
	}
	if err := checkConventionMethod(t.Name, *configure); err != nil {
		return nil, err
	}
	d.ConfigureMethod = configure.Name
	return d, nil
}

// findMethod looks for prefix+env, then prefix. A nil method without error
// means neither exists.
func findMethod(typeName string, t reflect.Type, prefix, env string) (*reflect.Method, error) {
	names := []string{prefix + strings.TrimSpace(env), prefix}
	if strings.TrimSpace(env) == "" {
		names = names[1:]
	}
	for _, name := range names {
		var matches []reflect.Method
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			if strings.EqualFold(m.Name, name) {
				matches = append(matches, m)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return &matches[0], nil
		default:
			found := make([]string, len(matches))
			for i, m := range matches {
				found[i] = m.Name
			}
			return nil, errors.StartupAmbiguous(typeName, name, found)
		}
	}
	return nil, nil
}

func checkConventionMethod(typeName string, m reflect.Method) error {
	mt := m.Type
	if mt.IsVariadic() {
		return errors.StartupInvalid(typeName, m.Name+" must not be variadic")
	}
	switch {
	case mt.NumOut() == 0:
	case mt.NumOut() == 1 && mt.Out(0) == errorType:
	default:
		return errors.StartupInvalid(typeName, m.Name+" must return nothing or an error")
	}
	return nil
}

// methodParam returns parameter i of m, skipping the receiver that method
// expressions on concrete types carry.
func methodParam(t reflect.Type, m reflect.Method, i int) reflect.Type {
	if t.Kind() == reflect.Interface {
		return m.Type.In(i)
	}
	return m.Type.In(i + 1)
}

func methodArity(t reflect.Type, m reflect.Method) int {
	if t.Kind() == reflect.Interface {
		return m.Type.NumIn()
	}
	return m.Type.NumIn() - 1
}

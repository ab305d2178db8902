package extension

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/hostkit/errors"
)

// HostingStartup configures a host builder before the application startup
// runs.
type HostingStartup[B any] interface {
	Configure(builder B) error
}

// Func adapts a function into a HostingStartup.
type Func[B any] func(builder B) error

// Configure implements HostingStartup.
func (f Func[B]) Configure(builder B) error { return f(builder) }

// Declaration marks a type as a hosting startup and tells the loader how to
// construct it.
type Declaration[B any] struct {
	Name string
	New  func() (HostingStartup[B], error)
}

// Declare builds a declaration from a configure function.
func Declare[B any](name string, fn func(builder B) error) Declaration[B] {
	return Declaration[B]{
		Name: name,
		New:  func() (HostingStartup[B], error) { return Func[B](fn), nil },
	}
}

// Module is a named unit of hosting startups, addressed by an identifier in
// configuration.
type Module[B any] struct {
	Name       string
	Extensions []Declaration[B]
}

// Catalog is the registration table of extension modules. Names are
// case-insensitive.
type Catalog[B any] struct {
	mu      sync.RWMutex
	modules []Module[B]
	index   map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog[B any]() *Catalog[B] {
	return &Catalog[B]{index: make(map[string]int)}
}

// Register adds a module.
func (c *Catalog[B]) Register(m Module[B]) error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return errors.InvalidArgument("module", "name must not be empty")
	}
	for i, d := range m.Extensions {
		if d.New == nil {
			return errors.InvalidArgument("module", fmt.Sprintf("%s: declaration %d has no constructor", name, i))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := c.index[key]; exists {
		return errors.InvalidArgument("module", fmt.Sprintf("%s already registered", name))
	}
	m.Name = name
	m.Extensions = append([]Declaration[B](nil), m.Extensions...)
	c.index[key] = len(c.modules)
	c.modules = append(c.modules, m)
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalog[B]) MustRegister(m Module[B]) {
	if err := c.Register(m); err != nil {
		panic(err)
	}
}

// Lookup finds a module by name.
func (c *Catalog[B]) Lookup(name string) (Module[B], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Module[B]{}, false
	}
	return c.modules[i], true
}

// Names returns module names in registration order.
func (c *Catalog[B]) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.modules))
	for i, m := range c.modules {
		names[i] = m.Name
	}
	return names
}

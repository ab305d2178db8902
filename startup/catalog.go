package startup

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/hostkit/errors"
)

// Type is a startup candidate. New is a constructor function whose
// parameters are resolved from the host services and which returns the
// startup value, optionally followed by an error.
type Type struct {
	Name string
	New  any
}

// Assembly is a named group of startup types.
type Assembly struct {
	Name  string
	Types []Type
}

// Catalog is the registration table of startup assemblies. Assembly names
// are case-insensitive.
type Catalog struct {
	mu         sync.RWMutex
	assemblies []Assembly
	index      map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Register adds an assembly.
func (c *Catalog) Register(a Assembly) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return errors.InvalidArgument("assembly", "name must not be empty")
	}
	for i, t := range a.Types {
		if strings.TrimSpace(t.Name) == "" {
			return errors.InvalidArgument("assembly", fmt.Sprintf("%s: type %d has no name", name, i))
		}
		if t.New == nil {
			return errors.InvalidArgument("assembly", fmt.Sprintf("%s: type %s has no constructor", name, t.Name))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := c.index[key]; exists {
		return errors.InvalidArgument("assembly", fmt.Sprintf("%s already registered", name))
	}
	a.Name = name
	a.Types = append([]Type(nil), a.Types...)
	c.index[key] = len(c.assemblies)
	c.assemblies = append(c.assemblies, a)
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalog) MustRegister(a Assembly) {
	if err := c.Register(a); err != nil {
		panic(err)
	}
}

// Lookup finds an assembly by name.
func (c *Catalog) Lookup(name string) (Assembly, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Assembly{}, false
	}
	return c.assemblies[i], true
}

// Names returns assembly names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.assemblies))
	for i, a := range c.assemblies {
		names[i] = a.Name
	}
	return names
}

// CandidateNames returns the type names tried for env, most specific first.
func CandidateNames(env string) []string {
	env = strings.TrimSpace(env)
	if env == "" {
		return []string{"Startup"}
	}
	return []string{"Startup" + env, "Startup"}
}

// FindStartupType returns the startup type of assembly for env.
func FindStartupType(c *Catalog, assembly, env string) (Type, error) {
	if strings.TrimSpace(assembly) == "" {
		return Type{}, errors.InvalidArgument("assembly", "startup assembly name must not be empty")
	}
	if c == nil {
		return Type{}, errors.StartupLoad(assembly, fmt.Errorf("no startup catalog configured"))
	}
	a, ok := c.Lookup(assembly)
	if !ok {
		return Type{}, errors.StartupLoad(assembly, fmt.Errorf("assembly is not registered"))
	}

	candidates := CandidateNames(env)
	for _, name := range candidates {
		var matches []Type
		for _, t := range a.Types {
			if strings.EqualFold(t.Name, name) {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			found := make([]string, len(matches))
			for i, m := range matches {
				found[i] = m.Name
			}
			return Type{}, errors.StartupAmbiguous(a.Name, name, found)
		}
	}
	return Type{}, errors.StartupNotFound(a.Name, candidates)
}

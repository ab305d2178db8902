package config

import (
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/hostkit/errors"
)

// Separator joins section names in a key.
const Separator = ":"

type layer struct {
	name   string
	values map[string]string
}

// Configuration is an ordered, case-insensitive string mapping built from
// layers. It is mutable through Set and AddSource until Freeze.
type Configuration struct {
	mu        sync.RWMutex
	layers    []layer
	overrides map[string]string
	frozen    bool
}

// New loads every source in order. A failing source aborts with a
// CONFIGURATION_ERROR naming the source.
func New(sources ...Source) (*Configuration, error) {
	c := &Configuration{overrides: make(map[string]string)}
	for _, s := range sources {
		if err := c.AddSource(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NormalizeKey trims and lowercases key and maps "__" and "." to ':'.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "__", Separator)
	return strings.ReplaceAll(key, ".", Separator)
}

// AddSource loads s and stacks it above the existing layers but below
// values written with Set.
func (c *Configuration) AddSource(s Source) error {
	if s == nil {
		return errors.NullArgument("source")
	}
	values, err := s.Load()
	if err != nil {
		return errors.Configuration(s.Name(), err)
	}

	normalized := make(map[string]string, len(values))
	for k, v := range values {
		normalized[NormalizeKey(k)] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return errors.InvalidOperation("configuration is read-only")
	}
	c.layers = append(c.layers, layer{name: s.Name(), values: normalized})
	return nil
}

// Set writes key in the override layer.
func (c *Configuration) Set(key, value string) error {
	k := NormalizeKey(key)
	if k == "" {
		return errors.InvalidArgument("key", "must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return errors.InvalidOperation("configuration is read-only; cannot set " + key)
	}
	c.overrides[k] = value
	return nil
}

// Get returns the value written last for key.
func (c *Configuration) Get(key string) (string, bool) {
	k := NormalizeKey(key)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.overrides[k]; ok {
		return v, true
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if v, ok := c.layers[i].values[k]; ok {
			return v, true
		}
	}
	return "", false
}

// GetString returns the value for key, or def when absent.
func (c *Configuration) GetString(key, def string) string {
	if v, ok := c.Get(key); ok {
		return v
	}
	return def
}

// Snapshot returns the merged view of all layers.
func (c *Configuration) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string)
	for _, l := range c.layers {
		for k, v := range l.values {
			out[k] = v
		}
	}
	for k, v := range c.overrides {
		out[k] = v
	}
	return out
}

// Keys returns every known key, sorted.
func (c *Configuration) Keys() []string {
	snap := c.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Section returns the values under prefix with the prefix stripped.
// An empty prefix returns the whole snapshot.
func (c *Configuration) Section(prefix string) map[string]string {
	snap := c.Snapshot()
	p := NormalizeKey(prefix)
	if p == "" {
		return snap
	}
	p += Separator

	out := make(map[string]string)
	for k, v := range snap {
		if strings.HasPrefix(k, p) {
			out[k[len(p):]] = v
		}
	}
	return out
}

// Sources returns the layer names in load order.
func (c *Configuration) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.layers))
	for i, l := range c.layers {
		names[i] = l.name
	}
	return names
}

// Freeze makes the configuration read-only.
func (c *Configuration) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (c *Configuration) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

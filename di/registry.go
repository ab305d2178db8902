package di

import (
	"fmt"

	"github.com/kbukum/hostkit/errors"
)

// Lifetime determines how long a resolved instance is reused.
type Lifetime int

const (
	Singleton Lifetime = iota // One instance per root provider
	Scoped                    // One instance per scope
	Transient                 // New instance per resolution
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// Resolver resolves services by contract key.
type Resolver interface {
	Resolve(key string) (any, error)
	ResolveAll(key string) ([]any, error)
	Contains(key string) bool
}

// Factory constructs a service. The resolver it receives tracks the current
// resolution chain, so nested resolutions must go through it.
type Factory func(r Resolver) (any, error)

// Descriptor describes one registration: a contract key, a lifetime and a
// construction strategy (a ready instance or a factory).
type Descriptor struct {
	Key      string
	Lifetime Lifetime
	Instance any
	Factory  Factory
}

// Instance describes a pre-created singleton.
func Instance(key string, instance any) Descriptor {
	return Descriptor{Key: key, Lifetime: Singleton, Instance: instance}
}

// NewSingleton describes a lazily constructed singleton.
func NewSingleton(key string, f Factory) Descriptor {
	return Descriptor{Key: key, Lifetime: Singleton, Factory: f}
}

// NewScoped describes a service created once per scope.
func NewScoped(key string, f Factory) Descriptor {
	return Descriptor{Key: key, Lifetime: Scoped, Factory: f}
}

// NewTransient describes a service created on every resolution.
func NewTransient(key string, f Factory) Descriptor {
	return Descriptor{Key: key, Lifetime: Transient, Factory: f}
}

func (d Descriptor) validate() error {
	if d.Key == "" {
		return errors.InvalidArgument("key", "must not be empty")
	}
	if d.Factory == nil && d.Instance == nil {
		return errors.InvalidArgument(d.Key, "descriptor needs an instance or a factory")
	}
	if d.Factory != nil && d.Instance != nil {
		return errors.InvalidArgument(d.Key, "descriptor cannot have both an instance and a factory")
	}
	if d.Instance != nil && d.Lifetime != Singleton {
		return errors.InvalidArgument(d.Key, "instances can only be registered as singletons")
	}
	if d.Lifetime < Singleton || d.Lifetime > Transient {
		return errors.InvalidArgument(d.Key, "unknown lifetime "+d.Lifetime.String())
	}
	return nil
}

// Registry is an ordered, append-only collection of descriptors. It is not
// safe for concurrent use; it is meant to be populated by a single
// goroutine during startup and then finalized with Build.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make([]Descriptor, 0)}
}

// Add appends a descriptor. Later descriptors for the same key win on Resolve.
func (r *Registry) Add(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.descriptors = append(r.descriptors, d)
	return nil
}

// MustAdd is Add that panics on an invalid descriptor.
func (r *Registry) MustAdd(d Descriptor) {
	if err := r.Add(d); err != nil {
		panic(err)
	}
}

// TryAdd appends the descriptor only if the key is not registered yet.
func (r *Registry) TryAdd(d Descriptor) bool {
	if r.Contains(d.Key) {
		return false
	}
	return r.Add(d) == nil
}

// Replace removes every descriptor for the key and appends d.
func (r *Registry) Replace(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.Remove(d.Key)
	r.descriptors = append(r.descriptors, d)
	return nil
}

// Remove deletes every descriptor for key and returns how many were removed.
func (r *Registry) Remove(key string) int {
	kept := r.descriptors[:0]
	removed := 0
	for _, d := range r.descriptors {
		if d.Key == key {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	r.descriptors = kept
	return removed
}

// Contains reports whether at least one descriptor exists for key.
func (r *Registry) Contains(key string) bool {
	for _, d := range r.descriptors {
		if d.Key == key {
			return true
		}
	}
	return false
}

// Lookup returns the descriptor that would win on Resolve.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	for i := len(r.descriptors) - 1; i >= 0; i-- {
		if r.descriptors[i].Key == key {
			return r.descriptors[i], true
		}
	}
	return Descriptor{}, false
}

// Descriptors returns a copy of the descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int { return len(r.descriptors) }

// Clone copies the descriptors into a new independent registry. Instances
// registered as singletons are shared by reference; lazily built singletons
// are constructed separately by each provider.
func (r *Registry) Clone() *Registry {
	return &Registry{descriptors: r.Descriptors()}
}

// Build finalizes the registry into a Provider. Later changes to the
// registry do not affect the provider.
func (r *Registry) Build() *Provider {
	return newRootProvider(r.Descriptors())
}

// ProviderFactory turns a registry into a provider.
type ProviderFactory interface {
	CreateProvider(r *Registry) *Provider
}

// DefaultProviderFactory builds providers with Registry.Build.
type DefaultProviderFactory struct{}

// CreateProvider implements ProviderFactory.
func (DefaultProviderFactory) CreateProvider(r *Registry) *Provider {
	return r.Build()
}

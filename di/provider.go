package di

import (
	"slices"
	"sync"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key         string
	Lifetime    Lifetime
	Initialized bool
}

type entry struct {
	order int
	desc  Descriptor
}

// slot caches one constructed instance. Failed constructions are not
// cached, so a later resolution calls the factory again.
type slot struct {
	mu    sync.Mutex
	done  bool
	value any
}

// Provider is the immutable, queryable realization of a Registry. It is safe
// for concurrent resolution. A root provider owns singletons; scopes created
// with CreateScope own their scoped instances and share the root's
// singletons. The root acts as its own scope for scoped services.
type Provider struct {
	root    *Provider
	entries map[string][]*entry
	keys    []string

	mu     sync.Mutex
	slots  map[*entry]*slot
	owned  []any
	closed bool
}

func newRootProvider(descriptors []Descriptor) *Provider {
	p := &Provider{
		entries: make(map[string][]*entry),
		slots:   make(map[*entry]*slot),
	}
	for i, d := range descriptors {
		if _, seen := p.entries[d.Key]; !seen {
			p.keys = append(p.keys, d.Key)
		}
		p.entries[d.Key] = append(p.entries[d.Key], &entry{order: i, desc: d})
	}
	return p
}

// ResolverKey and ProviderKey resolve to the provider itself.
var (
	ResolverKey = KeyOf[Resolver]()
	ProviderKey = KeyOf[*Provider]()
)

// Resolve returns the service registered last for key.
func (p *Provider) Resolve(key string) (any, error) {
	return p.resolve(key, nil)
}

// ResolveAll returns one service per registration for key, in registration order.
func (p *Provider) ResolveAll(key string) ([]any, error) {
	return p.resolveAll(key, nil)
}

// Contains reports whether key can be resolved.
func (p *Provider) Contains(key string) bool {
	if key == ResolverKey || key == ProviderKey {
		return true
	}
	_, ok := p.rootProvider().entries[key]
	return ok
}

// Keys returns every registered key in first-registration order.
func (p *Provider) Keys() []string {
	return slices.Clone(p.rootProvider().keys)
}

// CreateScope returns a child provider with its own scoped instances.
func (p *Provider) CreateScope() *Provider {
	root := p.rootProvider()
	return &Provider{
		root:    root,
		entries: root.entries,
		keys:    root.keys,
		slots:   make(map[*entry]*slot),
	}
}

// Registrations returns info about every registration.
func (p *Provider) Registrations() []RegistrationInfo {
	root := p.rootProvider()
	result := make([]RegistrationInfo, 0, len(root.entries))
	for _, key := range root.keys {
		for _, e := range root.entries[key] {
			info := RegistrationInfo{Key: key, Lifetime: e.desc.Lifetime}
			switch {
			case e.desc.Instance != nil:
				info.Initialized = true
			case e.desc.Lifetime == Singleton:
				info.Initialized = root.initialized(e)
			case e.desc.Lifetime == Scoped:
				info.Initialized = p.initialized(e)
			}
			result = append(result, info)
		}
	}
	return result
}

// Close closes every instance this provider constructed that implements
// Close() error, in reverse construction order. Pre-built instances
// registered with Instance are not owned and are left open. Resolution on
// a closed provider fails.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	owned := p.owned
	p.owned = nil
	p.mu.Unlock()

	var errs []error
	for i := len(owned) - 1; i >= 0; i-- {
		if closer, ok := owned[i].(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		logger.Warn("Provider closed with errors", logger.Fields("count", len(errs)))
	}
	return errors.NewAggregate("closing services failed", errs)
}

func (p *Provider) rootProvider() *Provider {
	if p.root != nil {
		return p.root
	}
	return p
}

func (p *Provider) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return true
	}
	if p.root != nil {
		return p.root.isClosed()
	}
	return false
}

func (p *Provider) initialized(e *entry) bool {
	p.mu.Lock()
	s, ok := p.slots[e]
	p.mu.Unlock()
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (p *Provider) resolve(key string, chain []string) (any, error) {
	if p.isClosed() {
		return nil, errors.InvalidOperation("cannot resolve " + key + " from a closed provider")
	}
	if slices.Contains(chain, key) {
		return nil, errors.CircularDependency(append(slices.Clone(chain), key))
	}

	entries := p.rootProvider().entries[key]
	if len(entries) == 0 {
		if key == ResolverKey || key == ProviderKey {
			return p, nil
		}
		return nil, errors.NotRegistered(key)
	}
	return p.produce(entries[len(entries)-1], append(slices.Clone(chain), key))
}

func (p *Provider) resolveAll(key string, chain []string) ([]any, error) {
	if p.isClosed() {
		return nil, errors.InvalidOperation("cannot resolve " + key + " from a closed provider")
	}
	if slices.Contains(chain, key) {
		return nil, errors.CircularDependency(append(slices.Clone(chain), key))
	}

	entries := p.rootProvider().entries[key]
	result := make([]any, 0, len(entries))
	next := append(slices.Clone(chain), key)
	for _, e := range entries {
		v, err := p.produce(e, next)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func (p *Provider) produce(e *entry, chain []string) (any, error) {
	d := e.desc
	if d.Instance != nil {
		return d.Instance, nil
	}

	switch d.Lifetime {
	case Transient:
		v, err := d.Factory(&resolution{provider: p, chain: chain})
		if err != nil {
			return nil, err
		}
		p.own(v)
		return v, nil
	case Singleton:
		return p.rootProvider().cached(e, chain)
	default:
		return p.cached(e, chain)
	}
}

// cached returns the instance for e owned by p, constructing it once.
func (p *Provider) cached(e *entry, chain []string) (any, error) {
	p.mu.Lock()
	s, ok := p.slots[e]
	if !ok {
		s = &slot{}
		p.slots[e] = s
	}
	p.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.value, nil
	}

	v, err := e.desc.Factory(&resolution{provider: p, chain: chain})
	if err != nil {
		return nil, err
	}
	s.value = v
	s.done = true
	p.own(v)
	return v, nil
}

func (p *Provider) own(v any) {
	if _, ok := v.(interface{ Close() error }); !ok {
		return
	}
	p.mu.Lock()
	p.owned = append(p.owned, v)
	p.mu.Unlock()
}

// resolution is the Resolver handed to factories; it carries the chain of
// keys being resolved so cycles are reported instead of deadlocking.
type resolution struct {
	provider *Provider
	chain    []string
}

func (r *resolution) Resolve(key string) (any, error) {
	return r.provider.resolve(key, r.chain)
}

func (r *resolution) ResolveAll(key string) ([]any, error) {
	return r.provider.resolveAll(key, r.chain)
}

func (r *resolution) Contains(key string) bool {
	return r.provider.Contains(key)
}

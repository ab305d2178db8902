// Package di provides the service registry used to compose a host.
//
// A Registry is an append-only list of descriptors built during startup. Once
// composition is finished it is finalized into an immutable Provider, which
// resolves services by contract key according to their lifetime. A Registry
// can be cloned so that host-scoped and application-scoped services evolve
// independently.
//
// # Registration
//
//	reg := di.NewRegistry()
//	di.AddSingleton(reg, func(r di.Resolver) (*MyService, error) {
//	    return NewMyService(), nil
//	})
//
// # Resolution
//
//	p := reg.Build()
//	svc := di.MustResolve[*MyService](p, di.KeyOf[*MyService]())
package di

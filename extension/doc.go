// Package extension loads hosting startup extensions named in configuration.
//
// Extensions live in an explicit Catalog of modules. Each module carries
// declarations; a declaration constructs one HostingStartup that configures
// the host builder. The catalog is generic over the builder type so that
// extensions receive the concrete builder they were written for.
//
//	catalog := extension.NewCatalog[*bootstrap.HostBuilder]()
//	catalog.MustRegister(extension.Module[*bootstrap.HostBuilder]{
//	    Name: "metrics",
//	    Extensions: []extension.Declaration[*bootstrap.HostBuilder]{
//	        extension.Declare("metrics", func(b *bootstrap.HostBuilder) error { ... }),
//	    },
//	})
//
// The Loader attempts every identifier. A failing identifier never stops the
// ones after it; failures are collected into a Report whose Err is one
// aggregate error.
package extension

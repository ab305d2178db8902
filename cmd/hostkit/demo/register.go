package demo

import (
	"github.com/kbukum/hostkit/bootstrap"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/startup"
)

// AssemblyName is the startup assembly of the demo.
const AssemblyName = "demo"

func init() {
	if err := Register(bootstrap.Extensions, bootstrap.Startups); err != nil {
		panic(err)
	}
}

// Assembly returns the demo startup assembly.
func Assembly() startup.Assembly {
	return startup.Assembly{Name: AssemblyName, Types: []startup.Type{
		{Name: "Startup", New: NewStartup},
		{Name: "StartupDevelopment", New: NewDevelopmentStartup},
	}}
}

// Register adds the demo assembly and modules to the given catalogs.
func Register(extensions *extension.Catalog[*bootstrap.HostBuilder], startups *startup.Catalog) error {
	if err := startups.Register(Assembly()); err != nil {
		return err
	}
	for _, m := range Modules() {
		if err := extensions.Register(m); err != nil {
			return err
		}
	}
	return nil
}

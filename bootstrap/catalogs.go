package bootstrap

import (
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/startup"
)

// Extensions is the default catalog of hosting startup modules. Modules
// usually register themselves from an init function.
var Extensions = extension.NewCatalog[*HostBuilder]()

// Startups is the default catalog of startup assemblies.
var Startups = startup.NewCatalog()

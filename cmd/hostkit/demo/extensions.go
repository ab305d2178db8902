package demo

import (
	"fmt"

	"github.com/kbukum/hostkit/bootstrap"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/extension"
	"github.com/kbukum/hostkit/logger"
)

// Hosting startup module names.
const (
	ModuleDiagnostics = "Demo.Diagnostics"
	ModuleBanner      = "Demo.Banner"
	ModuleFaulty      = "Demo.Faulty"
)

// Banner decorates greetings when the banner module is loaded.
type Banner struct {
	Suffix string
}

// Modules returns the demo hosting startup modules.
func Modules() []extension.Module[*bootstrap.HostBuilder] {
	return []extension.Module[*bootstrap.HostBuilder]{
		{Name: ModuleDiagnostics, Extensions: []extension.Declaration[*bootstrap.HostBuilder]{
			extension.Declare("debug-logging", func(b *bootstrap.HostBuilder) error {
				level := b.GetSetting("demo:logLevel")
				if level == "" {
					level = "debug"
				}
				b.ConfigureLogging(func(f *logger.Factory) error {
					return f.SetLevel(level)
				})
				return nil
			}),
			extension.Declare("detailed-errors", func(b *bootstrap.HostBuilder) error {
				b.UseSetting(bootstrap.KeyDetailedErrors, "true")
				return nil
			}),
		}},
		{Name: ModuleBanner, Extensions: []extension.Declaration[*bootstrap.HostBuilder]{
			extension.Declare("banner", func(b *bootstrap.HostBuilder) error {
				suffix := b.GetSetting("demo:banner")
				if suffix == "" {
					suffix = "!"
				}
				b.ConfigureServices(func(services *di.Registry) error {
					return di.AddInstance(services, &Banner{Suffix: suffix})
				})
				return nil
			}),
		}},
		{Name: ModuleFaulty, Extensions: []extension.Declaration[*bootstrap.HostBuilder]{
			extension.Declare("faulty", func(*bootstrap.HostBuilder) error {
				return fmt.Errorf("demo failure requested")
			}),
		}},
	}
}

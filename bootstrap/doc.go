// Package bootstrap builds and runs an application host.
//
// A HostBuilder merges configuration, host services, hosting startups and
// the application's startup into one host, exactly once:
//
//	host, err := bootstrap.NewHostBuilder().
//	    UseEnvironment("Development").
//	    UseStartup("orders").
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := host.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Hosting startups named by the hostingStartupAssemblies setting run first
// and may call back into the builder. Their failures are collected; with
// captureStartupErrors unset they fail Build, otherwise they are kept on
// the host. The startup itself is resolved when the host initializes, so a
// missing or invalid startup fails Build, or Start when errors are captured.
package bootstrap

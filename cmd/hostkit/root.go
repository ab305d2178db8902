package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kbukum/hostkit/bootstrap"
	"github.com/kbukum/hostkit/cmd/hostkit/demo"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/version"
)

// flagSettings maps command flags to host settings.
var flagSettings = map[string]string{
	"environment":            bootstrap.KeyEnvironment,
	"startup":                bootstrap.KeyStartupAssembly,
	"extensions":             bootstrap.KeyHostingStartupAssemblies,
	"capture-startup-errors": bootstrap.KeyCaptureStartupErrors,
	"content-root":           bootstrap.KeyContentRoot,
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "hostkit",
		Short:         "Build and run an application host",
		Long:          `hostkit assembles configuration, hosting startups and a startup assembly into an application host.`,
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringP("environment", "e", "", "environment name (default Production)")
	flags.StringP("startup", "s", "", "startup assembly (default "+demo.AssemblyName+")")
	flags.String("extensions", "", "hosting startup modules, separated by ';'")
	flags.Bool("capture-startup-errors", false, "keep the host when startup fails and report the errors")
	flags.String("content-root", "", "content root, relative to the working directory")
	flags.String("otlp-endpoint", "", "OTLP/HTTP collector endpoint for traces and metrics")
	flags.StringP("config", "c", "", "config file (default: config/<app>.yaml or config/config.yaml)")
	flags.String("env-file", "", "dotenv file (default: .env.<app> or .env)")
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlags(flags)

	root.AddCommand(newRunCmd(v), newDescribeCmd(v), newVersionCmd())
	return root
}

// session is a built host plus the telemetry it reports through.
type session struct {
	host     *bootstrap.Host
	shutdown func(context.Context)
}

// buildHost builds a host from the command flags.
func buildHost(cmd *cobra.Command, v *viper.Viper, captureErrors bool) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	factory := logger.NewFactory(logger.Config{
		Level:       v.GetString("log-level"),
		Writer:      cmd.ErrOrStderr(),
		ServiceName: "hostkit",
	})

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	files := config.Locate(config.RealFileSystem{}, wd, demo.AssemblyName)
	if path := v.GetString("config"); path != "" {
		files.ConfigFile = path
	}
	if path := v.GetString("env-file"); path != "" {
		files.EnvFile = path
	}

	opts := []bootstrap.Option{
		bootstrap.WithBasePath(wd),
		bootstrap.WithConfigurationSources(files.Sources(bootstrap.EnvPrefix)...),
	}
	shutdown := func(context.Context) {}
	if endpoint := v.GetString("otlp-endpoint"); endpoint != "" {
		tel, stop, err := initTelemetry(ctx, endpoint, v.GetString("environment"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, bootstrap.WithTelemetry(tel))
		shutdown = stop
	}

	b := bootstrap.NewHostBuilder(opts...).UseLoggerFactory(factory)
	for flag, key := range flagSettings {
		if v.IsSet(flag) {
			b.UseSetting(key, v.GetString(flag))
		}
	}
	if b.GetSetting(bootstrap.KeyStartupAssembly) == "" {
		b.UseStartup(demo.AssemblyName)
	}
	if captureErrors {
		b.CaptureStartupErrors(true)
	}

	host, err := b.Build(ctx)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}
	return &session{host: host, shutdown: shutdown}, nil
}

func initTelemetry(ctx context.Context, endpoint, env string) (*observability.Telemetry, func(context.Context), error) {
	tcfg := observability.DefaultTracerConfig(demo.AssemblyName)
	tcfg.Endpoint = endpoint
	tcfg.ServiceVersion = version.GetShortVersion()
	if env != "" {
		tcfg.Environment = env
	}
	tp, err := observability.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, nil, err
	}

	mcfg := observability.DefaultMeterConfig(demo.AssemblyName)
	mcfg.Endpoint = endpoint
	mcfg.ServiceVersion = tcfg.ServiceVersion
	mcfg.Environment = tcfg.Environment
	mp, err := observability.InitMeter(ctx, &mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}

	tel, err := observability.NewTelemetry(tp, mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}
	stop := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
	}
	return tel, stop, nil
}

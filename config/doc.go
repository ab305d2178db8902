// Package config provides the layered key/value configuration used by the
// host bootstrap.
//
// A Configuration is built from ordered sources. Later sources override
// earlier ones and Set writes an override layer on top of all of them, so the
// last writer always wins. Keys are case-insensitive and use ':' as the
// section separator; "__" and "." in source keys are normalized to ':'.
//
// # Sources
//
//	cfg, err := config.New(
//	    config.FileSource("config.yml", true),
//	    config.DotEnvSource(".env", "HOSTKIT_"),
//	    config.EnvSource("HOSTKIT_"),
//	)
//
// File sources are read with Viper (YAML, JSON, TOML), dotenv sources with
// godotenv. Once the host is built the configuration is frozen and Set fails.
//
// # Binding
//
// Bind decodes a section into a struct through Viper and mapstructure and
// then runs struct tag validation:
//
//	var opts struct {
//	    Port int `mapstructure:"port" validate:"required,min=1"`
//	}
//	err := cfg.Bind("server", &opts)
package config

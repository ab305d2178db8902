package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source produces one layer of configuration values.
type Source interface {
	Name() string
	Load() (map[string]string, error)
}

type sourceFunc struct {
	name string
	load func() (map[string]string, error)
}

func (s sourceFunc) Name() string                     { return s.name }
func (s sourceFunc) Load() (map[string]string, error) { return s.load() }

// NewSource adapts a load function into a Source.
func NewSource(name string, load func() (map[string]string, error)) Source {
	return sourceFunc{name: name, load: load}
}

// MapSource serves a fixed set of values. The map is copied on Load.
func MapSource(name string, values map[string]string) Source {
	return NewSource(name, func() (map[string]string, error) {
		out := make(map[string]string, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out, nil
	})
}

// EnvSource reads process environment variables whose name starts with
// prefix (case-insensitive). The prefix is stripped; "__" in the remainder
// becomes the section separator. An empty prefix reads every variable.
func EnvSource(prefix string) Source {
	return NewSource("env:"+prefix, func() (map[string]string, error) {
		return filterPrefix(environ(), prefix), nil
	})
}

// DotEnvSource reads a .env file with godotenv without touching the process
// environment. Only variables carrying prefix are kept.
func DotEnvSource(path, prefix string) Source {
	return NewSource("dotenv:"+path, func() (map[string]string, error) {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, err
		}
		return filterPrefix(values, prefix), nil
	})
}

// FileSource reads a YAML, JSON or TOML file with Viper. Nested keys are
// flattened with ':'. A missing optional file yields an empty layer.
func FileSource(path string, optional bool) Source {
	return NewSource("file:"+path, func() (map[string]string, error) {
		if _, err := os.Stat(path); err != nil {
			if optional && os.IsNotExist(err) {
				return map[string]string{}, nil
			}
			return nil, err
		}

		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		out := make(map[string]string, len(v.AllKeys()))
		for _, key := range v.AllKeys() {
			out[key] = stringify(v.Get(key))
		}
		return out, nil
	})
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 || pair[0] == "" {
			continue
		}
		out[pair[0]] = pair[1]
	}
	return out
}

func filterPrefix(values map[string]string, prefix string) map[string]string {
	out := make(map[string]string)
	for k, v := range values {
		if len(k) < len(prefix) || !strings.EqualFold(k[:len(prefix)], prefix) {
			continue
		}
		name := k[len(prefix):]
		if name == "" {
			continue
		}
		out[name] = v
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}

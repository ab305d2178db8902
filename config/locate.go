package config

import (
	"os"
	"path/filepath"
)

// FileSystem abstracts file lookups so Locate can be tested.
type FileSystem interface {
	Exists(path string) bool
}

// RealFileSystem implements FileSystem with os.Stat.
type RealFileSystem struct{}

// Exists reports whether path exists.
func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolvedFiles contains the config and env files found for an application.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Sources returns the file sources for the resolved files, config file first.
func (r ResolvedFiles) Sources(prefix string) []Source {
	var sources []Source
	if r.ConfigFile != "" {
		sources = append(sources, FileSource(r.ConfigFile, false))
	}
	if r.EnvFile != "" {
		sources = append(sources, DotEnvSource(r.EnvFile, prefix))
	}
	return sources
}

// Locate searches dir for a config file and a .env file. Application
// specific names win over the generic ones.
func Locate(fs FileSystem, dir, appName string) ResolvedFiles {
	if fs == nil {
		fs = RealFileSystem{}
	}

	var names []string
	if appName != "" {
		names = append(names, filepath.Join(dir, "config", appName))
	}
	names = append(names, filepath.Join(dir, "config", "config"), filepath.Join(dir, "config"))

	var configs []string
	for _, name := range names {
		for _, ext := range []string{"yml", "yaml", "json", "toml"} {
			configs = append(configs, name+"."+ext)
		}
	}

	var envs []string
	if appName != "" {
		envs = append(envs, filepath.Join(dir, ".env."+appName))
	}
	envs = append(envs, filepath.Join(dir, ".env"))

	return ResolvedFiles{
		ConfigFile: firstExisting(fs, configs),
		EnvFile:    firstExisting(fs, envs),
	}
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/kbukum/hostkit/errors"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"ApplicationName":        "applicationname",
		"  Logging__Level ":      "logging:level",
		"logging.format":         "logging:format",
		"Server:Port":            "server:port",
		"HOSTING__STARTUP.Extra": "hosting:startup:extra",
	}
	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetAndGetCaseInsensitive(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Set("Environment", "Staging"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok := c.Get("ENVIRONMENT")
	if !ok || v != "Staging" {
		t.Errorf("expected Staging, got %q (%v)", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
	if got := c.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	if err := c.Set("  ", "x"); !errors.IsCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for empty key, got %v", err)
	}
}

func TestLayerOrder(t *testing.T) {
	c, err := New(
		MapSource("defaults", map[string]string{"a": "1", "b": "1", "c": "1"}),
		MapSource("file", map[string]string{"b": "2", "c": "2"}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = c.Set("c", "3")

	for key, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		if got, _ := c.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	if err := c.AddSource(MapSource("late", map[string]string{"b": "4", "c": "4"})); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	if got, _ := c.Get("b"); got != "4" {
		t.Errorf("expected later source to win, got %q", got)
	}
	if got, _ := c.Get("c"); got != "3" {
		t.Errorf("expected Set to stay above sources, got %q", got)
	}
	if names := c.Sources(); len(names) != 3 || names[2] != "late" {
		t.Errorf("unexpected sources %v", names)
	}
}

func TestProperty_LastWriteWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "B", "c:d", "C__D"}), 1, 30).Draw(rt, "keys")
		c, _ := New()

		want := map[string]string{}
		for i, k := range keys {
			v := fmt.Sprintf("v%d", i)
			if err := c.Set(k, v); err != nil {
				rt.Fatalf("Set failed: %v", err)
			}
			want[NormalizeKey(k)] = v
		}
		for k, v := range want {
			if got, _ := c.Get(k); got != v {
				rt.Fatalf("Get(%q) = %q, want %q", k, got, v)
			}
		}
	})
}

func TestFreeze(t *testing.T) {
	c, _ := New()
	_ = c.Set("a", "1")
	c.Freeze()

	if !c.Frozen() {
		t.Error("expected Frozen after Freeze")
	}
	if err := c.Set("a", "2"); !errors.IsCode(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("expected INVALID_OPERATION, got %v", err)
	}
	if err := c.AddSource(MapSource("x", nil)); !errors.IsCode(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("expected INVALID_OPERATION from AddSource, got %v", err)
	}
	if got, _ := c.Get("a"); got != "1" {
		t.Errorf("expected value unchanged, got %q", got)
	}
}

func TestKeysAndSection(t *testing.T) {
	c, _ := New(MapSource("m", map[string]string{
		"logging:level":  "debug",
		"Logging:Format": "json",
		"loggingx":       "no",
		"app":            "demo",
	}))

	keys := c.Keys()
	if strings.Join(keys, ",") != "app,logging:format,logging:level,loggingx" {
		t.Errorf("unexpected keys %v", keys)
	}

	section := c.Section("Logging")
	if len(section) != 2 || section["level"] != "debug" || section["format"] != "json" {
		t.Errorf("unexpected section %v", section)
	}
	if len(c.Section("")) != 4 {
		t.Error("expected empty prefix to return everything")
	}
}

func TestSourceErrorIsWrapped(t *testing.T) {
	failing := NewSource("broken", func() (map[string]string, error) {
		return nil, fmt.Errorf("boom")
	})
	_, err := New(failing)
	if !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected source name in error, got %q", err.Error())
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("HOSTKIT_ENVIRONMENT", "Development")
	t.Setenv("hostkit_Logging__Level", "debug")
	t.Setenv("OTHER_VALUE", "ignored")

	c, err := New(EnvSource("HOSTKIT_"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got, _ := c.Get("environment"); got != "Development" {
		t.Errorf("expected Development, got %q", got)
	}
	if got, _ := c.Get("logging:level"); got != "debug" {
		t.Errorf("expected debug, got %q", got)
	}
	if _, ok := c.Get("other_value"); ok {
		t.Error("expected unprefixed variables to be filtered")
	}
}

func TestDotEnvSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "HOSTKIT_APPLICATIONNAME=demo\nHOSTKIT_SERVER__PORT=8080\nUNRELATED=1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(DotEnvSource(path, "HOSTKIT_"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got, _ := c.Get("applicationName"); got != "demo" {
		t.Errorf("expected demo, got %q", got)
	}
	if got, _ := c.Get("server:port"); got != "8080" {
		t.Errorf("expected 8080, got %q", got)
	}
	if os.Getenv("HOSTKIT_APPLICATIONNAME") != "" {
		t.Error("dotenv source must not modify the process environment")
	}

	if _, err := New(DotEnvSource(filepath.Join(dir, "missing.env"), "")); err == nil {
		t.Error("expected error for a missing dotenv file")
	}
}

func TestFileSourceYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yamlContent := `
environment: Staging
logging:
  level: warn
hostingStartupAssemblies:
  - metrics
  - audit
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(FileSource(path, false))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got, _ := c.Get("environment"); got != "Staging" {
		t.Errorf("expected Staging, got %q", got)
	}
	if got, _ := c.Get("logging:level"); got != "warn" {
		t.Errorf("expected warn, got %q", got)
	}
	if got, _ := c.Get("hostingStartupAssemblies"); got != "metrics,audit" {
		t.Errorf("expected joined list, got %q", got)
	}
}

func TestFileSourceMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")
	if _, err := New(FileSource(missing, true)); err != nil {
		t.Errorf("optional missing file should be skipped, got %v", err)
	}
	if _, err := New(FileSource(missing, false)); !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR for required file, got %v", err)
	}
}

type serverOptions struct {
	Host  string   `mapstructure:"host" validate:"required"`
	Port  int      `mapstructure:"port" validate:"min=1"`
	Debug bool     `mapstructure:"debug"`
	Tags  []string `mapstructure:"tags"`
}

func TestBind(t *testing.T) {
	c, _ := New(MapSource("m", map[string]string{
		"server:host":  "localhost",
		"server:port":  "8080",
		"server:debug": "true",
		"server:tags":  "a,b",
	}))

	var opts serverOptions
	if err := c.Bind("Server", &opts); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if opts.Host != "localhost" || opts.Port != 8080 || !opts.Debug {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.Tags) != 2 || opts.Tags[1] != "b" {
		t.Errorf("expected tags to be split, got %v", opts.Tags)
	}
}

func TestBindValidates(t *testing.T) {
	c, _ := New(MapSource("m", map[string]string{"server:port": "0"}))

	var opts serverOptions
	err := c.Bind("server", &opts)
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if err := c.Bind("server", nil); !errors.IsCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for nil target, got %v", err)
	}
}

type fakeFS map[string]bool

func (f fakeFS) Exists(path string) bool { return f[path] }

func TestLocate(t *testing.T) {
	fs := fakeFS{
		filepath.Join("app", "config", "config.yml"): true,
		filepath.Join("app", "config", "demo.yaml"):  true,
		filepath.Join("app", ".env"):                 true,
	}

	got := Locate(fs, "app", "demo")
	if got.ConfigFile != filepath.Join("app", "config", "demo.yaml") {
		t.Errorf("expected application config to win, got %q", got.ConfigFile)
	}
	if got.EnvFile != filepath.Join("app", ".env") {
		t.Errorf("unexpected env file %q", got.EnvFile)
	}
	if len(got.Sources("HOSTKIT_")) != 2 {
		t.Error("expected two sources")
	}

	fs[filepath.Join("app", ".env.demo")] = true
	if got := Locate(fs, "app", "demo"); got.EnvFile != filepath.Join("app", ".env.demo") {
		t.Errorf("expected application env file to win, got %q", got.EnvFile)
	}
	if got := Locate(fakeFS{}, "app", ""); got.ConfigFile != "" || len(got.Sources("")) != 0 {
		t.Errorf("expected nothing found, got %+v", got)
	}
}

package startup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbukum/hostkit/application"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

type settings struct{ name string }

type journal struct{ calls []string }

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

// formal startup

type formalStartup struct {
	j *journal
	s *settings
}

func (f *formalStartup) ConfigureServices(services *di.Registry) error {
	f.j.add("services:" + f.s.name)
	return services.Add(di.Instance("from-startup", f.s.name))
}

func (f *formalStartup) Configure(app *application.Builder) error {
	f.j.add("configure")
	return nil
}

// convention startup

type conventionDemo struct{ j *journal }

func (c *conventionDemo) ConfigureServices(services *di.Registry) {
	c.j.add("services")
}

func (c *conventionDemo) ConfigureServicesDevelopment(services *di.Registry) error {
	c.j.add("services-dev")
	return services.Add(di.Instance("dev-only", true))
}

func (c *conventionDemo) Configure(app *application.Builder) {
	c.j.add("configure")
}

func (c *conventionDemo) ConfigureDevelopment(app *application.Builder, s *settings) error {
	c.j.add("configure-dev:" + s.name)
	return nil
}

type configureOnly struct{ j *journal }

func (c *configureOnly) Configure(app *application.Builder) error {
	c.j.add("configure-only")
	return fmt.Errorf("configure failed")
}

type noConfigure struct{}

func (noConfigure) ConfigureServices(*di.Registry) {}

type badServices struct{}

func (badServices) ConfigureServices(*di.Registry, string) {}
func (badServices) Configure(*application.Builder)         {}

type ambiguousMethods struct{}

func (ambiguousMethods) ConfigureDev(*application.Builder) {}
func (ambiguousMethods) ConfigureDEV(*application.Builder) {}

type badReturn struct{}

func (badReturn) Configure(*application.Builder) int { return 0 }

func newCatalog(j *journal) *Catalog {
	c := NewCatalog()
	c.MustRegister(Assembly{Name: "Demo", Types: []Type{
		{Name: "Startup", New: func(j2 *journal, s *settings) *formalStartup { return &formalStartup{j: j2, s: s} }},
		{Name: "StartupDevelopment", New: func() *conventionDemo { return &conventionDemo{j: j} }},
		{Name: "StartupStaging", New: func() (*configureOnly, error) { return &configureOnly{j: j}, nil }},
		{Name: "StartupBroken", New: func() (*formalStartup, error) { return nil, fmt.Errorf("ctor failed") }},
	}})
	c.MustRegister(Assembly{Name: "Twins", Types: []Type{
		{Name: "Startup", New: func() *conventionDemo { return nil }},
		{Name: "STARTUP", New: func() *conventionDemo { return nil }},
	}})
	c.MustRegister(Assembly{Name: "Empty"})
	return c
}

func hostServices(j *journal) *di.Registry {
	reg := di.NewRegistry()
	reg.MustAdd(di.Instance(di.KeyOf[*journal](), j))
	reg.MustAdd(di.Instance(di.KeyOf[*settings](), &settings{name: "demo"}))
	return reg
}

// initialize mimics host initialization: resolve, ConfigureServices, build, Configure.
func initialize(t *testing.T, host *di.Registry) (*di.Provider, error) {
	t.Helper()
	s, err := di.Resolve[Startup](host.Build(), Key)
	if err != nil {
		return nil, err
	}
	app := host.Clone()
	if err := s.ConfigureServices(app); err != nil {
		return nil, err
	}
	provider := app.Build()
	return provider, s.Configure(application.NewBuilder(provider, logger.NewNop()))
}

func TestCandidateNames(t *testing.T) {
	require.Equal(t, []string{"StartupDevelopment", "Startup"}, CandidateNames("Development"))
	require.Equal(t, []string{"Startup"}, CandidateNames(" "))
}

func TestFindStartupType(t *testing.T) {
	c := newCatalog(&journal{})

	typ, err := FindStartupType(c, "demo", "development")
	require.NoError(t, err)
	require.Equal(t, "StartupDevelopment", typ.Name, "environment specific type wins, case-insensitively")

	typ, err = FindStartupType(c, "Demo", "Production")
	require.NoError(t, err)
	require.Equal(t, "Startup", typ.Name)

	_, err = FindStartupType(c, "Twins", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupAmbiguous))

	_, err = FindStartupType(c, "Empty", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupNotFound))
	require.Contains(t, err.Error(), "StartupProduction or Startup")

	_, err = FindStartupType(c, "Nope", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupLoad))

	_, err = FindStartupType(c, "", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))

	_, err = FindStartupType(nil, "Demo", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupLoad))
}

func TestCatalogRegisterValidation(t *testing.T) {
	c := NewCatalog()
	require.True(t, errors.IsCode(c.Register(Assembly{}), errors.ErrCodeInvalidArgument))
	require.True(t, errors.IsCode(c.Register(Assembly{Name: "a", Types: []Type{{New: func() {}}}}), errors.ErrCodeInvalidArgument))
	require.True(t, errors.IsCode(c.Register(Assembly{Name: "a", Types: []Type{{Name: "Startup"}}}), errors.ErrCodeInvalidArgument))
	require.NoError(t, c.Register(Assembly{Name: "a"}))
	require.True(t, errors.IsCode(c.Register(Assembly{Name: "A"}), errors.ErrCodeInvalidArgument))
	require.Equal(t, []string{"a"}, c.Names())
}

func TestDescribe(t *testing.T) {
	d, err := Describe(Type{Name: "F", New: func() *formalStartup { return nil }}, "Development")
	require.NoError(t, err)
	require.True(t, d.Formal)

	d, err = Describe(Type{Name: "C", New: func() *conventionDemo { return nil }}, "Development")
	require.NoError(t, err)
	require.False(t, d.Formal)
	require.Equal(t, "ConfigureServicesDevelopment", d.ConfigureServicesMethod)
	require.Equal(t, "ConfigureDevelopment", d.ConfigureMethod)

	d, err = Describe(Type{Name: "C", New: func() *conventionDemo { return nil }}, "Staging")
	require.NoError(t, err)
	require.Equal(t, "ConfigureServices", d.ConfigureServicesMethod)
	require.Equal(t, "Configure", d.ConfigureMethod)

	d, err = Describe(Type{Name: "O", New: func() *configureOnly { return nil }}, "")
	require.NoError(t, err)
	require.Empty(t, d.ConfigureServicesMethod)
}

func TestDescribeInvalid(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		code errors.ErrorCode
	}{
		{"not a function", Type{Name: "x", New: 42}, errors.ErrCodeStartupInvalid},
		{"variadic", Type{Name: "x", New: func(...int) *formalStartup { return nil }}, errors.ErrCodeStartupInvalid},
		{"bad returns", Type{Name: "x", New: func() (*formalStartup, int) { return nil, 0 }}, errors.ErrCodeStartupInvalid},
		{"no configure", Type{Name: "x", New: func() noConfigure { return noConfigure{} }}, errors.ErrCodeStartupInvalid},
		{"bad services params", Type{Name: "x", New: func() badServices { return badServices{} }}, errors.ErrCodeStartupInvalid},
		{"bad configure return", Type{Name: "x", New: func() badReturn { return badReturn{} }}, errors.ErrCodeStartupInvalid},
		{"ambiguous case", Type{Name: "x", New: func() ambiguousMethods { return ambiguousMethods{} }}, errors.ErrCodeStartupAmbiguous},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Describe(tc.typ, "Dev")
			require.True(t, errors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestRegisterFormalStartup(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, Register(host, newCatalog(j), "Demo", "Production"))

	provider, err := initialize(t, host)
	require.NoError(t, err)
	require.Equal(t, []string{"services:demo", "configure"}, j.calls)
	require.Equal(t, "demo", di.MustResolve[string](provider, "from-startup"))
}

func TestRegisterConventionPrefersEnvironmentMethods(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, Register(host, newCatalog(j), "Demo", "Development"))

	provider, err := initialize(t, host)
	require.NoError(t, err)
	require.Equal(t, []string{"services-dev", "configure-dev:demo"}, j.calls)
	require.True(t, provider.Contains("dev-only"))
}

func TestConventionConfigureError(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, Register(host, newCatalog(j), "Demo", "Staging"))

	_, err := initialize(t, host)
	require.EqualError(t, err, "configure failed")
	require.Equal(t, []string{"configure-only"}, j.calls)
}

func TestConstructorErrorSurfacesOnResolve(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, Register(host, newCatalog(j), "Demo", "Broken"))

	_, err := initialize(t, host)
	require.EqualError(t, err, "di: failed to resolve "+Key+": ctor failed")
}

func TestRegisterDefersResolutionErrors(t *testing.T) {
	j := &journal{}
	host := hostServices(j)

	err := Register(host, newCatalog(j), "Missing", "Production")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupLoad))
	require.True(t, host.Contains(Key), "a failing registration is installed")

	_, err = initialize(t, host)
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupLoad), "the error surfaces on resolution")
	require.Empty(t, j.calls)
}

func TestRegisterType(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, RegisterType(host, Type{Name: "Explicit", New: func() *conventionDemo { return &conventionDemo{j: j} }}, ""))

	_, err := initialize(t, host)
	require.NoError(t, err)
	require.Equal(t, []string{"services", "configure"}, j.calls)

	bad := di.NewRegistry()
	err = RegisterType(bad, Type{Name: "Bad", New: 1}, "")
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupInvalid))
	_, err = bad.Build().Resolve(Key)
	require.True(t, errors.IsCode(err, errors.ErrCodeStartupInvalid))
}

func TestRegisterDelegate(t *testing.T) {
	host := di.NewRegistry()
	called := false
	require.NoError(t, RegisterDelegate(host, func(app *application.Builder) error {
		called = true
		return nil
	}))

	_, err := initialize(t, host)
	require.NoError(t, err)
	require.True(t, called)

	require.True(t, errors.IsCode(RegisterDelegate(host, nil), errors.ErrCodeInvalidArgument))
	require.True(t, errors.IsCode(RegisterDelegate(nil, func(*application.Builder) error { return nil }), errors.ErrCodeInvalidArgument))
}

func TestLastRegistrationWins(t *testing.T) {
	j := &journal{}
	host := hostServices(j)
	require.NoError(t, Register(host, newCatalog(j), "Demo", "Production"))
	require.NoError(t, RegisterDelegate(host, func(*application.Builder) error {
		j.add("override")
		return nil
	}))

	_, err := initialize(t, host)
	require.NoError(t, err)
	require.Equal(t, []string{"override"}, j.calls)
}

package bootstrap

import "strings"

// Environment describes where the application runs.
type Environment struct {
	ApplicationName string
	EnvironmentName string
	ContentRootPath string
}

// IsEnvironment reports whether the environment name equals name,
// ignoring case.
func (e *Environment) IsEnvironment(name string) bool {
	return strings.EqualFold(e.EnvironmentName, name)
}

func (e *Environment) IsDevelopment() bool { return e.IsEnvironment(EnvironmentDevelopment) }
func (e *Environment) IsStaging() bool     { return e.IsEnvironment(EnvironmentStaging) }
func (e *Environment) IsProduction() bool  { return e.IsEnvironment(EnvironmentProduction) }

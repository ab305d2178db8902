// Package validation checks bound option structs and host options.
//
// Struct tag validation uses go-playground/validator. Field names in errors
// come from the mapstructure tag, so they match configuration keys:
//
//	type ServerOptions struct {
//	    Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
//	}
//	err := validation.Validate(&opts)
//
// Programmatic checks collect field errors with a Validator:
//
//	v := validation.New()
//	v.Required("applicationName", name).Min("shutdownTimeoutSeconds", secs, 0)
//	if err := v.Validate(); err != nil { ... }
package validation

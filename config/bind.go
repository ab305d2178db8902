package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/validation"
)

// Binder decodes configuration sections into option structs.
type Binder interface {
	Bind(section string, target any) error
}

// Bind decodes the values under section into target using mapstructure tags
// and validates the result with `validate` struct tags.
func (c *Configuration) Bind(section string, target any) error {
	if target == nil {
		return errors.NullArgument("target")
	}

	v := viper.New()
	for k, val := range c.Section(section) {
		v.Set(strings.ReplaceAll(k, Separator, "."), val)
	}
	if err := v.Unmarshal(target); err != nil {
		return errors.Configuration("section "+section, err)
	}
	return validation.Validate(target)
}

var _ Binder = (*Configuration)(nil)

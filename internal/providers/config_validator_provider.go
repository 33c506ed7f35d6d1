package providers

import (
	"fmt"
	"invitebot/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if cv.conf.Attribution.RefreshInterval < 0 {
		return fmt.Errorf("invalid config: attribution.refreshInterval must not be negative")
	}
	for name, prefix := range cv.conf.Discord.Commands {
		if prefix == "" {
			return fmt.Errorf("invalid config: empty prefix for command %s", name)
		}
	}
	return nil
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

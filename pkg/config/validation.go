package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against its struct validation tags and
// the cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				return fmt.Errorf("invalid config field %s: failed %q constraint", fe.Namespace(), fe.Tag())
			}
		}
		return err
	}

	if cfg.Tickets.TTL < 0 {
		return fmt.Errorf("tickets.ttl must not be negative")
	}
	return nil
}

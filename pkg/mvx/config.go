package mvx

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config contains the configuration required to reach a ledger gateway (proxy).
type Config struct {
	ProxyURL string        `validate:"required,url"`
	ChainID  string        `validate:"required" default:"D"`
	Timeout  time.Duration `default:"30s"`
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	return validator.New().Struct(c)
}

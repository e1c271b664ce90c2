package finality

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config controls how long and how often the watcher polls.
type Config struct {
	// SettleDelay is waited once before the first status query.
	SettleDelay time.Duration `default:"3s" validate:"gte=0"`
	// PollInterval is waited between status queries while the transaction is pending.
	PollInterval time.Duration `default:"5s" validate:"gt=0"`
	// Timeout bounds the whole wait, settle delay included.
	Timeout time.Duration `default:"10m" validate:"gt=0"`
	// MaxTransportErrors is the number of consecutive failed queries tolerated
	// before giving up. A gateway answer with a non-successful code is never retried.
	MaxTransportErrors int `default:"3" validate:"gte=1"`
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

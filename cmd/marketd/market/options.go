package market

import (
	"errors"
	"time"
)

var defaultConfig = config{
	now: time.Now,
}

type config struct {
	now func() time.Time
}

// Option provides configuration for Market.
type Option func(*config) error

// WithClock configures the clock used to evaluate expiry.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		c.now = now
		return nil
	}
}

package expirer

import (
	"errors"
	"time"
)

var defaultConfig = config{
	frequency: time.Minute,
	batchSize: 100,
}

type config struct {
	frequency time.Duration
	batchSize int
}

// Option provides configuration for Expirer.
type Option func(*config) error

// WithFrequency configures the interval between sweeps.
func WithFrequency(freq time.Duration) Option {
	return func(c *config) error {
		if freq <= 0 {
			return errors.New("frequency must be positive")
		}
		c.frequency = freq
		return nil
	}
}

// WithBatchSize configures the maximum number of entities of each kind expired
// per sweep. Zero means no limit.
func WithBatchSize(size int) Option {
	return func(c *config) error {
		if size < 0 {
			return errors.New("batch size is negative")
		}
		c.batchSize = size
		return nil
	}
}

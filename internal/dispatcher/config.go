package dispatcher

import "github.com/charmbracelet/log"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery. Observer
	// callbacks are always recovered.
	RecoverFromPanic bool

	// MaxRepeatCount limits the repeat count of motions and deletions.
	// Zero means no limit.
	MaxRepeatCount int

	// Logger receives dispatch logs. Nil uses the package default.
	Logger *log.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		MaxRepeatCount:   10000,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMaxRepeatCount returns a copy of the config with the max repeat count set.
func (c Config) WithMaxRepeatCount(max int) Config {
	c.MaxRepeatCount = max
	return c
}

// WithLogger returns a copy of the config using logger.
func (c Config) WithLogger(logger *log.Logger) Config {
	c.Logger = logger
	return c
}

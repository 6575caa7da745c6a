package appctx

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	configValidator = validator.New()
)

// Config is the configuration of an application context.
type Config struct {
	ProcessTimeout     time.Duration `validate:"gt=0"`
	HealthCheckTimeout time.Duration `validate:"gt=0"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`

	// Eager makes ProcessComponents construct every active component upfront.
	Eager bool
}

func defaultConfig() *Config {
	return &Config{
		ProcessTimeout:     30 * time.Second,
		HealthCheckTimeout: 5 * time.Second,
		ShutdownTimeout:    10 * time.Second,
	}
}

func (c *Config) Validate(_ context.Context) error {
	return configValidator.Struct(c)
}

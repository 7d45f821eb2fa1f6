package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePropagation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePropagation() error {
	if c.Propagation.BatchLimit < 0 {
		return fmt.Errorf("propagation.batch_limit must be positive, got %d", c.Propagation.BatchLimit)
	}
	if c.Propagation.PollInterval < 0 {
		return fmt.Errorf("propagation.poll_interval must be positive, got %d", c.Propagation.PollInterval)
	}
	if c.Propagation.ClaimLeaseSeconds < 0 {
		return fmt.Errorf("propagation.claim_lease_seconds must be positive, got %d", c.Propagation.ClaimLeaseSeconds)
	}
	if c.Propagation.DefaultPriority < 0 {
		return fmt.Errorf("propagation.default_priority must be positive, got %d", c.Propagation.DefaultPriority)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

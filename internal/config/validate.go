package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOCR() error {
	if c.OCR.Threshold < 0 || c.OCR.Threshold > 1 {
		return errors.New("ocr.threshold must be between 0 and 1")
	}
	if c.OCR.Border < 0 {
		return errors.New("ocr.border must not be negative")
	}
	if c.OCR.DPI <= 0 {
		return errors.New("ocr.dpi must be positive")
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		return errors.New("ocr.language must be set")
	}
	if c.OCR.Workers < 0 {
		return errors.New("ocr.workers must not be negative")
	}
	for _, variable := range c.OCR.Variables {
		if _, _, ok := strings.Cut(variable, "="); !ok {
			return fmt.Errorf("ocr.variables entry %q is not key=value", variable)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}

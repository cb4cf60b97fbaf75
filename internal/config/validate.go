package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.BaseURL == "" {
		return errors.New("speech.base_url must be set")
	}
	if _, err := url.Parse(c.Speech.BaseURL); err != nil {
		return fmt.Errorf("speech.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.BaseURL == "" {
		return errors.New("render.base_url must be set")
	}
	if _, err := url.Parse(c.Render.BaseURL); err != nil {
		return fmt.Errorf("render.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateLLM() error {
	// An empty API key selects the builtin ruleset; only check shape when set.
	if c.LLM.APIKey != "" && strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set when llm.api_key is configured")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

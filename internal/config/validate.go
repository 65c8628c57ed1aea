package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if err := c.validateTemplates(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTemplates() error {
	for name, tpl := range c.Templates {
		if strings.TrimSpace(tpl.Pattern) == "" {
			return fmt.Errorf("templates.%s: pattern is required", name)
		}
		if !strings.Contains(tpl.Pattern, "{") {
			return fmt.Errorf("templates.%s: pattern %q has no fields", name, tpl.Pattern)
		}
	}
	return nil
}

func (c *Config) validatePublish() error {
	if c.Publish.FileMode > 0o777 {
		return fmt.Errorf("publish.file_mode: %o is not a valid permission mode", c.Publish.FileMode)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTemplates()
	c.normalizePublish()
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectRoot) == "" {
		if value, ok := os.LookupEnv(defaultProjectRootEnv); ok {
			c.Paths.ProjectRoot = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.ProjectRoot) != "" {
		if c.Paths.ProjectRoot, err = expandPath(c.Paths.ProjectRoot); err != nil {
			return fmt.Errorf("paths.project_root: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTemplates() {
	if c.Templates == nil {
		c.Templates = map[string]Template{}
		return
	}
	normalized := make(map[string]Template, len(c.Templates))
	for name, tpl := range c.Templates {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		tpl.Pattern = strings.TrimSpace(tpl.Pattern)
		normalized[key] = tpl
	}
	c.Templates = normalized
}

func (c *Config) normalizePublish() {
	if c.Publish.FileMode == 0 {
		c.Publish.FileMode = defaultFileMode
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = defaultWatchDebounce
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

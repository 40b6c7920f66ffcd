package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate reports configuration values that cannot be acted on.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateAlbum(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOrganize() error {
	subdir := c.Organize.PhotoSubdir
	if strings.ContainsAny(subdir, `/\`) {
		return fmt.Errorf("organize.photo_subdir: must be a bare directory name, got %q", subdir)
	}
	return nil
}

func (c *Config) validateAlbum() error {
	name := c.Album.FileName
	if filepath.Base(name) != name {
		return fmt.Errorf("album.file_name: must be a bare file name, got %q", name)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".html") {
		return fmt.Errorf("album.file_name: must end in .html, got %q", name)
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

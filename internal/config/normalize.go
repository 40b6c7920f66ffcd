package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeAlbum()
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ContactsFile != "" {
		if c.Paths.ContactsFile, err = expandPath(c.Paths.ContactsFile); err != nil {
			return fmt.Errorf("paths.contacts_file: %w", err)
		}
	}
	if c.Paths.SourceDir != "" {
		if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
			return fmt.Errorf("paths.source_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.PhotoSubdir = strings.TrimSpace(c.Organize.PhotoSubdir)
	if c.Organize.PhotoSubdir == "" {
		c.Organize.PhotoSubdir = defaultPhotoSubdir
	}
}

func (c *Config) normalizeAlbum() {
	c.Album.Title = strings.TrimSpace(c.Album.Title)
	if c.Album.Title == "" {
		c.Album.Title = defaultAlbumTitle
	}
	c.Album.FileName = strings.TrimSpace(c.Album.FileName)
	if c.Album.FileName == "" {
		c.Album.FileName = defaultAlbumFileName
	}
	if c.Album.PhotosPerRow <= 0 {
		c.Album.PhotosPerRow = defaultPhotosPerRow
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.Workers <= 0 {
		c.Matching.Workers = defaultMatchWorkers
	}
	if c.Matching.Workers > maxMatchWorkers {
		c.Matching.Workers = maxMatchWorkers
	}
}

func (c *Config) normalizeLogging() {
	// Only lowercase and default here; unknown formats are a validation
	// error, not something to silently rewrite.
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

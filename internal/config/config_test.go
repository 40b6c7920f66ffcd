package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"contactsheet/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	workDir := t.TempDir()
	if err := os.Chdir(workDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "contactsheet") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "contactsheet", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Organize.PhotoSubdir != "photo" {
		t.Fatalf("unexpected photo subdir: %q", cfg.Organize.PhotoSubdir)
	}
	if !cfg.Organize.VerifiedCopy {
		t.Fatal("expected verified copies by default")
	}
	if cfg.Matching.Workers != 4 {
		t.Fatalf("unexpected worker default: %d", cfg.Matching.Workers)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
contacts_file = "` + filepath.Join(dir, "contacts.vcf") + `"
source_dir = "` + filepath.Join(dir, "photos") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[matching]
workers = 100

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.ContactsFile != filepath.Join(dir, "contacts.vcf") {
		t.Fatalf("unexpected contacts file: %q", cfg.Paths.ContactsFile)
	}
	if cfg.Matching.Workers != 32 {
		t.Fatalf("expected workers capped at 32, got %d", cfg.Matching.Workers)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
format = "fancy"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown logging format")
	}
}

func TestLoadDefaultsEmptyLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
format = "  "
level = "WARN"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestValidateRejectsNestedPhotoSubdir(t *testing.T) {
	cfg := config.Default()
	cfg.Organize.PhotoSubdir = "a/b"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for nested photo_subdir")
	}
}

func TestValidateRejectsNonHTMLAlbumName(t *testing.T) {
	cfg := config.Default()
	cfg.Album.FileName = "album.txt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for non-html album file name")
	}
}

func TestCreateSampleIsParseable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Organize.PhotoSubdir != "photo" {
		t.Fatalf("unexpected sample photo subdir: %q", cfg.Organize.PhotoSubdir)
	}
}

func TestEnsureDirectoriesCreatesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
}

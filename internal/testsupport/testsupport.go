// Package testsupport provides fixtures shared by package tests: a
// configuration rooted in temp directories and a small bilingual VCF.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"contactsheet/internal/config"
)

// NewConfig returns a default configuration whose paths all live under
// per-test temp directories.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ContactsFile = filepath.Join(t.TempDir(), "contacts.vcf")
	cfg.Paths.SourceDir = t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	return &cfg
}

// WriteConfigFile marshals cfg to a TOML file and returns its path.
func WriteConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// SampleVCF holds three contacts, two of them sharing a name.
const SampleVCF = `BEGIN:VCARD
VERSION:3.0
FN:张三
ORG:上海贸易公司
TEL;TYPE=CELL:13800000000
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:张三
ORG:北京科技有限公司
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:李四
EMAIL:lisi@example.com
END:VCARD
`

// WriteSampleVCF writes SampleVCF to cfg's contacts path.
func WriteSampleVCF(t *testing.T, cfg *config.Config) {
	t.Helper()
	if err := os.WriteFile(cfg.Paths.ContactsFile, []byte(SampleVCF), 0o644); err != nil {
		t.Fatalf("write vcf: %v", err)
	}
}

// AddSourceFolder creates a tagged folder under the source directory
// with the given image file names and returns the folder path.
func AddSourceFolder(t *testing.T, cfg *config.Config, label string, images ...string) string {
	t.Helper()
	folder := filepath.Join(cfg.Paths.SourceDir, label)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range images {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("image-bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return folder
}

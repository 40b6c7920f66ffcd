package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerifiedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	payload := []byte("not really a jpeg but good enough")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestUniquePathAppendsSuffixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portrait.jpg")

	got, err := UniquePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Fatalf("expected untouched path, got %q", got)
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = UniquePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "portrait_1.jpg") {
		t.Fatalf("expected _1 suffix, got %q", got)
	}

	if err := os.WriteFile(got, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = UniquePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "portrait_2.jpg") {
		t.Fatalf("expected _2 suffix, got %q", got)
	}
}

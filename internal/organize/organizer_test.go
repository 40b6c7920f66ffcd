package organize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"contactsheet/internal/config"
	"contactsheet/internal/contacts"
	"contactsheet/internal/match"
	"contactsheet/internal/organize"
	"contactsheet/internal/services"
	"contactsheet/internal/tags"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.SourceDir = t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	return &cfg
}

func writeImage(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func folderAssignment(source string, records ...*contacts.Record) match.Assignment {
	return match.Assignment{
		Tag:      tags.Tag{RawLabel: filepath.Base(source), Context: filepath.Base(source), Source: source},
		Resolved: records,
	}
}

func TestRunWritesContactTree(t *testing.T) {
	cfg := newConfig(t)
	source := filepath.Join(cfg.Paths.SourceDir, "张三 上海贸易公司")
	writeImage(t, filepath.Join(source, "a.jpg"))
	writeImage(t, filepath.Join(source, "b.png"))

	record := &contacts.Record{
		Name:        "张三",
		Affiliation: "上海贸易公司",
		Phones:      []string{"13800000000", "021-1234567"},
		Emails:      []string{"zs@example.com"},
	}
	organizer := organize.New(cfg, nil)
	result, err := organizer.Run(context.Background(), []match.Assignment{
		folderAssignment(source, record),
		{Tag: tags.Tag{RawLabel: "赵七", Context: "赵七"}}, // unmatched, skipped
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Folders != 1 || result.ContactFiles != 1 || result.PhotosCopied != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	target := filepath.Join(cfg.Paths.OutputDir, "张三 上海贸易公司")
	data, err := os.ReadFile(filepath.Join(target, "张三.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"姓名：张三\n", "单位：上海贸易公司\n", "电话1：13800000000\n", "电话2：021-1234567\n", "邮箱：zs@example.com\n"} {
		if !strings.Contains(text, want) {
			t.Fatalf("contact file missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "职位") || strings.Contains(text, "备注") {
		t.Fatalf("empty fields should be omitted:\n%s", text)
	}

	for _, name := range []string{"a.jpg", "b.png"} {
		if _, err := os.Stat(filepath.Join(target, "photo", name)); err != nil {
			t.Fatalf("photo %s not copied: %v", name, err)
		}
	}
}

func TestRunSkipsPhotoDirWhenFolderHasNoImages(t *testing.T) {
	cfg := newConfig(t)
	source := filepath.Join(cfg.Paths.SourceDir, "李四")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatal(err)
	}

	organizer := organize.New(cfg, nil)
	result, err := organizer.Run(context.Background(), []match.Assignment{
		folderAssignment(source, &contacts.Record{Name: "李四"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.PhotosCopied != 0 {
		t.Fatalf("unexpected photo copies: %+v", result)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "李四", "photo")); !os.IsNotExist(err) {
		t.Fatal("photo directory should not exist for an imageless folder")
	}
}

func TestRunSuffixesCollidingFolders(t *testing.T) {
	cfg := newConfig(t)
	source := filepath.Join(cfg.Paths.SourceDir, "王五")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatal(err)
	}
	record := &contacts.Record{Name: "王五"}
	assignment := folderAssignment(source, record)

	organizer := organize.New(cfg, nil)
	for i := 0; i < 2; i++ {
		if _, err := organizer.Run(context.Background(), []match.Assignment{assignment}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "王五")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "王五_1")); err != nil {
		t.Fatal("second run should have created a numbered sibling")
	}
}

func TestRunOverwritesWhenConfigured(t *testing.T) {
	cfg := newConfig(t)
	cfg.Organize.OverwriteExisting = true
	source := filepath.Join(cfg.Paths.SourceDir, "王五")
	writeImage(t, filepath.Join(source, "a.jpg"))
	assignment := folderAssignment(source, &contacts.Record{Name: "王五"})

	organizer := organize.New(cfg, nil)
	for i := 0; i < 2; i++ {
		if _, err := organizer.Run(context.Background(), []match.Assignment{assignment}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(cfg.Paths.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	dirs := 0
	for _, entry := range entries {
		if entry.IsDir() {
			dirs++
		}
	}
	if dirs != 1 {
		t.Fatalf("expected a single reused folder, found %d", dirs)
	}
	photos, err := os.ReadDir(filepath.Join(cfg.Paths.OutputDir, "王五", "photo"))
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 1 {
		t.Fatalf("overwrite should reuse the photo name, found %d files", len(photos))
	}
}

func TestRunCopiesPhotoTaggedImage(t *testing.T) {
	cfg := newConfig(t)
	image := filepath.Join(cfg.Paths.SourceDir, "party.jpg")
	writeImage(t, image)

	record := &contacts.Record{Name: "张三"}
	organizer := organize.New(cfg, nil)
	result, err := organizer.Run(context.Background(), []match.Assignment{{
		Tag:      tags.Tag{RawLabel: "张三", Source: image},
		Resolved: []*contacts.Record{record},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if result.PhotosCopied != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "张三", "photo", "party.jpg")); err != nil {
		t.Fatal(err)
	}
}

func TestRunGroupsPhotoTagsByContact(t *testing.T) {
	cfg := newConfig(t)
	first := filepath.Join(cfg.Paths.SourceDir, "a.jpg")
	second := filepath.Join(cfg.Paths.SourceDir, "b.jpg")
	writeImage(t, first)
	writeImage(t, second)

	// One person tagged in two photos: both must land in the same folder.
	record := &contacts.Record{Name: "张三"}
	organizer := organize.New(cfg, nil)
	result, err := organizer.Run(context.Background(), []match.Assignment{
		{Tag: tags.Tag{RawLabel: "张三", Source: first}, Resolved: []*contacts.Record{record}},
		{Tag: tags.Tag{RawLabel: "张三", Source: second}, Resolved: []*contacts.Record{record}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Folders != 1 || result.ContactFiles != 1 || result.PhotosCopied != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "张三_1")); !os.IsNotExist(err) {
		t.Fatal("second photo must not mint a numbered sibling folder")
	}
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "张三", "photo", name)); err != nil {
			t.Fatalf("photo %s not grouped: %v", name, err)
		}
	}
}

func TestRunRefusesLockedOutput(t *testing.T) {
	cfg := newConfig(t)
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(cfg.Paths.OutputDir, ".contactsheet.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take test lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	organizer := organize.New(cfg, nil)
	_, err = organizer.Run(context.Background(), nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient lock error, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	cfg := newConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	organizer := organize.New(cfg, nil)
	_, err := organizer.Run(ctx, []match.Assignment{
		folderAssignment(filepath.Join(cfg.Paths.SourceDir, "张三"), &contacts.Record{Name: "张三"}),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestContactTextNumberedLabels(t *testing.T) {
	text := organize.ContactText(contacts.Record{
		Name:      "李四",
		Title:     "经理",
		Addresses: []string{"北京市朝阳区", "上海市浦东新区"},
		Note:      "老同学",
	})
	want := "姓名：李四\n职位：经理\n地址1：北京市朝阳区\n地址2：上海市浦东新区\n备注：老同学\n"
	if text != want {
		t.Fatalf("ContactText = %q, want %q", text, want)
	}
}

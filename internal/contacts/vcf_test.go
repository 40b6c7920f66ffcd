package contacts_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contactsheet/internal/contacts"
)

const sampleVCF = `BEGIN:VCARD
VERSION:3.0
FN:张三
ORG:北京科技有限公司
TITLE:工程师
TEL;TYPE=CELL:13800138000
TEL;TYPE=WORK:010-12345678
EMAIL;TYPE=INTERNET:zhangsan@example.com
ADR;TYPE=WORK:;;中关村大街1号;北京;;100080;中国
NOTE:老同学
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:张三
ORG:上海贸易公司
END:VCARD
BEGIN:VCARD
VERSION:3.0
N:李;四;;;
TEL:13900139000
TEL:13900139000
END:VCARD
`

func TestParseSampleCards(t *testing.T) {
	records := contacts.Parse(sampleVCF)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Name != "张三" {
		t.Fatalf("unexpected name: %q", first.Name)
	}
	if first.Affiliation != "北京科技有限公司" {
		t.Fatalf("unexpected affiliation: %q", first.Affiliation)
	}
	if first.Title != "工程师" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	if len(first.Phones) != 2 {
		t.Fatalf("expected 2 phones, got %v", first.Phones)
	}
	if len(first.Emails) != 1 || first.Emails[0] != "zhangsan@example.com" {
		t.Fatalf("unexpected emails: %v", first.Emails)
	}
	if len(first.Addresses) != 1 || !strings.Contains(first.Addresses[0], "中关村大街1号") {
		t.Fatalf("unexpected addresses: %v", first.Addresses)
	}
	if first.Note != "老同学" {
		t.Fatalf("unexpected note: %q", first.Note)
	}

	// N fallback joins family and given parts; duplicate phones collapse.
	third := records[2]
	if third.Name != "李 四" {
		t.Fatalf("unexpected fallback name: %q", third.Name)
	}
	if len(third.Phones) != 1 {
		t.Fatalf("expected deduplicated phone, got %v", third.Phones)
	}
}

func TestParseUnfoldsContinuationLines(t *testing.T) {
	text := "BEGIN:VCARD\nFN:王五\nNOTE:first part\n  and the rest\nEND:VCARD\n"
	records := contacts.Parse(text)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Note != "first part and the rest" {
		t.Fatalf("continuation not unfolded: %q", records[0].Note)
	}
}

func TestParseSkipsNamelessCards(t *testing.T) {
	text := "BEGIN:VCARD\nTEL:123\nEND:VCARD\nBEGIN:VCARD\nFN:赵六\nEND:VCARD\n"
	records := contacts.Parse(text)
	if len(records) != 1 || records[0].Name != "赵六" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseGroupPrefixedProperties(t *testing.T) {
	text := "BEGIN:VCARD\nFN:周七\nitem1.EMAIL:zhouqi@example.com\nEND:VCARD\n"
	records := contacts.Parse(text)
	if len(records) != 1 || len(records[0].Emails) != 1 {
		t.Fatalf("group-prefixed email not parsed: %+v", records)
	}
}

func TestDirectoryIndexOrderAndLookup(t *testing.T) {
	dir := contacts.NewDirectory([]Record{
		{Name: "张三", Affiliation: "北京科技有限公司"},
		{Name: "李四"},
		{Name: "张三", Affiliation: "上海贸易公司"},
	})
	if dir.Len() != 3 {
		t.Fatalf("unexpected length: %d", dir.Len())
	}

	bucket := dir.ByName(" 张三 ")
	if len(bucket) != 2 {
		t.Fatalf("expected 2 records for 张三, got %d", len(bucket))
	}
	if bucket[0].SourceOrder != 0 || bucket[1].SourceOrder != 2 {
		t.Fatalf("bucket does not preserve source order: %d, %d", bucket[0].SourceOrder, bucket[1].SourceOrder)
	}
	if dir.ByName("不存在") != nil {
		t.Fatal("expected nil bucket for unknown name")
	}
}

func TestLoadDecodesGBKFile(t *testing.T) {
	// "张三" encoded as GBK (D5C5 C8FD), invalid as UTF-8.
	var raw []byte
	raw = append(raw, []byte("BEGIN:VCARD\nFN:")...)
	raw = append(raw, 0xD5, 0xC5, 0xC8, 0xFD)
	raw = append(raw, []byte("\nEND:VCARD\n")...)

	path := filepath.Join(t.TempDir(), "contacts.vcf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := contacts.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dir.Len() != 1 || dir.Records()[0].Name != "张三" {
		t.Fatalf("GBK name not decoded: %+v", dir.Records())
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	if err := os.WriteFile(path, []byte("not a vcard\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := contacts.Load(path); err == nil {
		t.Fatal("expected error for file without records")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := contacts.Load(filepath.Join(t.TempDir(), "absent.vcf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// Record alias keeps table literals compact.
type Record = contacts.Record

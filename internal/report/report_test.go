package report_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"contactsheet/internal/contacts"
	"contactsheet/internal/match"
	"contactsheet/internal/report"
	"contactsheet/internal/tags"
)

func buildAssignments(t *testing.T) ([]match.Assignment, *contacts.Directory) {
	t.Helper()
	dir := contacts.NewDirectory([]contacts.Record{
		{Name: "张三", Affiliation: "上海贸易公司"},
		{Name: "李四"},
		{Name: "王五"},
	})
	resolver := match.NewResolver(dir)
	assignments := []match.Assignment{
		resolver.Resolve(tags.Tag{RawLabel: "张三 上海贸易公司", Context: "张三 上海贸易公司"}),
		resolver.Resolve(tags.Tag{RawLabel: "李四"}),
		resolver.Resolve(tags.Tag{RawLabel: "李四"}), // repeat tag, same contact
		resolver.Resolve(tags.Tag{RawLabel: "赵七"}),
	}
	return assignments, dir
}

func TestSummarize(t *testing.T) {
	assignments, dir := buildAssignments(t)
	summary := report.Summarize(assignments, dir)

	if summary.TotalTags != 4 || summary.MatchedTags != 3 {
		t.Fatalf("tag counts wrong: %+v", summary)
	}
	if summary.TotalContacts != 3 || summary.MatchedContacts != 2 {
		t.Fatalf("contact counts wrong: %+v", summary)
	}
	if !reflect.DeepEqual(summary.UnmatchedTags, []string{"赵七"}) {
		t.Fatalf("unmatched tags = %v", summary.UnmatchedTags)
	}
	if !reflect.DeepEqual(summary.UnmatchedContacts, []string{"王五"}) {
		t.Fatalf("unmatched contacts = %v", summary.UnmatchedContacts)
	}
}

func TestRenderPlainForNonTerminal(t *testing.T) {
	assignments, dir := buildAssignments(t)
	summary := report.Summarize(assignments, dir)

	var buf bytes.Buffer
	if err := report.Render(&buf, summary); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Matched tags:", "3", "Unmatched contacts:", "王五", "Unmatched tags:", "赵七"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	// A bytes.Buffer is not a terminal, so no table borders appear.
	if strings.Contains(out, "╭") {
		t.Fatalf("expected plain output, got table:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	assignments, dir := buildAssignments(t)
	summary := report.Summarize(assignments, dir)

	var buf bytes.Buffer
	if err := report.RenderJSON(&buf, summary); err != nil {
		t.Fatal(err)
	}
	var decoded report.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, summary) {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, summary)
	}
}

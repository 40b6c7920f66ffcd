package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Render writes the summary to w. Terminals get a rounded table; pipes
// and files get plain aligned lines so output stays grep-friendly.
func Render(w io.Writer, summary Summary) error {
	if isTerminal(w) {
		return renderTable(w, summary)
	}
	return renderPlain(w, summary)
}

// RenderJSON writes the summary as indented JSON.
func RenderJSON(w io.Writer, summary Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func renderTable(w io.Writer, summary Summary) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	for _, row := range summaryRows(summary) {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}
	return renderLists(w, summary)
}

func renderPlain(w io.Writer, summary Summary) error {
	for _, row := range summaryRows(summary) {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return renderLists(w, summary)
}

func summaryRows(summary Summary) [][2]string {
	return [][2]string{
		{"Tags", strconv.Itoa(summary.TotalTags)},
		{"Matched tags", strconv.Itoa(summary.MatchedTags)},
		{"Unmatched tags", strconv.Itoa(len(summary.UnmatchedTags))},
		{"Contacts", strconv.Itoa(summary.TotalContacts)},
		{"Matched contacts", strconv.Itoa(summary.MatchedContacts)},
		{"Unmatched contacts", strconv.Itoa(len(summary.UnmatchedContacts))},
	}
}

func renderLists(w io.Writer, summary Summary) error {
	if len(summary.UnmatchedTags) > 0 {
		if _, err := fmt.Fprintf(w, "\nUnmatched tags:\n  %s\n", strings.Join(summary.UnmatchedTags, "\n  ")); err != nil {
			return err
		}
	}
	if len(summary.UnmatchedContacts) > 0 {
		if _, err := fmt.Fprintf(w, "\nUnmatched contacts:\n  %s\n", strings.Join(summary.UnmatchedContacts, "\n  ")); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

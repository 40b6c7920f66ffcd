package contacts

import (
	"fmt"
	"os"
	"strings"

	"contactsheet/internal/services"
)

// Load reads a VCF file, decodes its text, and returns the parsed
// directory. A file that yields no usable contact records is a
// validation error.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "contacts", "read_vcf", fmt.Sprintf("cannot read contact file %s", path), err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "contacts", "decode_vcf", "contact file is not in a supported encoding", err)
	}
	records := Parse(text)
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrValidation, "contacts", "parse_vcf", fmt.Sprintf("no contact records found in %s", path), nil)
	}
	return NewDirectory(records), nil
}

// Parse extracts contact records from decoded VCF text. Records without a
// name are skipped. SourceOrder on the returned records is unset; callers
// assign it via NewDirectory.
func Parse(text string) []Record {
	var records []Record
	for _, block := range splitCards(unfold(text)) {
		record, ok := parseCard(block)
		if ok {
			records = append(records, record)
		}
	}
	return records
}

// unfold joins vCard continuation lines (RFC 6350 §3.2): a line starting
// with a space or tab continues the previous line with the marker dropped.
func unfold(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitCards(lines []string) [][]string {
	var cards [][]string
	var current []string
	inCard := false
	for _, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case upper == "BEGIN:VCARD":
			current = nil
			inCard = true
		case upper == "END:VCARD":
			if inCard && len(current) > 0 {
				cards = append(cards, current)
			}
			inCard = false
		case inCard:
			current = append(current, line)
		}
	}
	return cards
}

func parseCard(lines []string) (Record, bool) {
	var record Record
	var fallbackName string

	for _, line := range lines {
		name, value, ok := splitProperty(line)
		if !ok {
			continue
		}
		switch name {
		case "FN":
			if record.Name == "" {
				record.Name = strings.TrimSpace(value)
			}
		case "N":
			if fallbackName == "" {
				fallbackName = structuredName(value)
			}
		case "ORG":
			if record.Affiliation == "" {
				record.Affiliation = strings.TrimSpace(strings.ReplaceAll(value, ";", " "))
			}
		case "TITLE":
			if record.Title == "" {
				record.Title = strings.TrimSpace(value)
			}
		case "TEL":
			record.Phones = appendUnique(record.Phones, strings.TrimSpace(value))
		case "EMAIL":
			record.Emails = appendUnique(record.Emails, strings.TrimSpace(value))
		case "ADR":
			record.Addresses = appendUnique(record.Addresses, joinAddress(value))
		case "NOTE":
			if record.Note == "" {
				record.Note = strings.TrimSpace(value)
			}
		}
	}

	if record.Name == "" {
		record.Name = fallbackName
	}
	if record.Name == "" {
		return Record{}, false
	}
	return record, true
}

// splitProperty separates a content line into its upper-cased property
// name and value. Parameters between the name and the colon are dropped,
// as is any group prefix ("item1.EMAIL:…").
func splitProperty(line string) (string, string, bool) {
	colon := strings.Index(line, ":")
	if colon <= 0 {
		return "", "", false
	}
	name := line[:colon]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", "", false
	}
	return name, line[colon+1:], true
}

// structuredName joins the family and given components of an N property.
func structuredName(value string) string {
	parts := strings.Split(value, ";")
	kept := make([]string, 0, 2)
	for _, part := range parts[:min(len(parts), 2)] {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}

// joinAddress flattens an ADR property (PO box, extended, street, city,
// region, postal code, country) into a single display string.
func joinAddress(value string) string {
	parts := strings.Split(value, ";")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}

func appendUnique(values []string, value string) []string {
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

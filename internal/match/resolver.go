package match

import (
	"strings"
	"unicode"

	"contactsheet/internal/contacts"
	"contactsheet/internal/tags"
	"contactsheet/internal/textutil"
)

// Assignment binds a tag to the contact records it resolved to. An empty
// Resolved slice means the tag is unmatched; that is a reportable outcome,
// not an error. Assignments are not mutated after creation.
type Assignment struct {
	Tag      tags.Tag
	Resolved []*contacts.Record
}

// Matched reports whether the assignment resolved to at least one contact.
func (a Assignment) Matched() bool {
	return len(a.Resolved) > 0
}

// Resolver matches tags against an immutable contact directory. The
// name index is precomputed by the directory, so each lookup is a single
// map access followed by the tie-break ladder.
type Resolver struct {
	dir *contacts.Directory
}

// NewResolver captures the directory the resolver reads from.
func NewResolver(dir *contacts.Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve maps one tag to its assignment.
//
// Folder-derived tags (Context set) split into a candidate name and an
// optional affiliation at the first whitespace boundary. Photo-derived
// tags (Context empty) carry bare names only; a label listing several
// people resolves each name independently and unions the results in
// label order.
func (r *Resolver) Resolve(tag tags.Tag) Assignment {
	if label := strings.TrimSpace(tag.Context); label != "" {
		name, affiliation := SplitLabel(label)
		record := r.resolveName(name, affiliation)
		if record == nil {
			return Assignment{Tag: tag}
		}
		return Assignment{Tag: tag, Resolved: []*contacts.Record{record}}
	}

	var resolved []*contacts.Record
	seen := map[*contacts.Record]struct{}{}
	for _, name := range SplitNames(tag.RawLabel) {
		record := r.resolveName(name, "")
		if record == nil {
			continue
		}
		if _, dup := seen[record]; dup {
			continue
		}
		seen[record] = struct{}{}
		resolved = append(resolved, record)
	}
	return Assignment{Tag: tag, Resolved: resolved}
}

// resolveName runs the tie-break ladder for a single candidate name and
// returns the winning record, or nil when the name is empty or unknown.
func (r *Resolver) resolveName(name, affiliation string) *contacts.Record {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	candidates := r.dir.ByName(name)
	if len(candidates) == 0 {
		return nil
	}
	// A unique name wins outright, even against a mismatched affiliation.
	if len(candidates) == 1 {
		return candidates[0]
	}

	affiliation = strings.TrimSpace(affiliation)
	if affiliation != "" {
		for _, candidate := range candidates {
			if strings.TrimSpace(candidate.Affiliation) == affiliation {
				return candidate
			}
		}
		for _, candidate := range candidates {
			recorded := strings.TrimSpace(candidate.Affiliation)
			if recorded != "" && textutil.IsSubsequence(recorded, affiliation) {
				return candidate
			}
		}
	}

	// No usable affiliation signal: an affiliation-bearing record is the
	// more specific claim, then the first-seen record settles the rest.
	for _, candidate := range candidates {
		if candidate.HasAffiliation() {
			return candidate
		}
	}
	return candidates[0]
}

// SplitLabel divides a folder label into a candidate name and an optional
// affiliation at the first whitespace boundary.
func SplitLabel(label string) (string, string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ""
	}
	idx := strings.IndexFunc(label, unicode.IsSpace)
	if idx < 0 {
		return label, ""
	}
	return label[:idx], strings.TrimSpace(label[idx:])
}

// nameDelimiters are the separators photo software uses when several
// people are listed in one tag value.
func isNameDelimiter(r rune) bool {
	switch r {
	case '、', ',', '，', ';', '；', '/', '|', '\n':
		return true
	}
	return false
}

// SplitNames extracts the individual names from a raw tag label,
// preserving their order of appearance.
func SplitNames(label string) []string {
	fields := strings.FieldsFunc(label, isNameDelimiter)
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

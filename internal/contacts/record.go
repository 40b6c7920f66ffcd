package contacts

import "strings"

// Record is a single parsed contact. Records are immutable once parsed;
// SourceOrder is the zero-based position in the original file and acts as
// the final deterministic tie-break during matching.
type Record struct {
	Name        string
	Affiliation string
	Title       string
	Phones      []string
	Emails      []string
	Addresses   []string
	Note        string
	SourceOrder int
}

// HasAffiliation reports whether the record carries a non-empty affiliation.
func (r Record) HasAffiliation() bool {
	return strings.TrimSpace(r.Affiliation) != ""
}

// Directory is an ordered set of contact records indexed by name. The
// index is built once at construction; buckets preserve original
// appearance order. Callers must treat returned slices as read-only.
type Directory struct {
	records []Record
	index   map[string][]*Record
}

// NewDirectory assigns SourceOrder by slice position and builds the name
// index.
func NewDirectory(records []Record) *Directory {
	dir := &Directory{
		records: make([]Record, len(records)),
		index:   make(map[string][]*Record, len(records)),
	}
	copy(dir.records, records)
	for i := range dir.records {
		dir.records[i].SourceOrder = i
		name := strings.TrimSpace(dir.records[i].Name)
		if name == "" {
			continue
		}
		dir.index[name] = append(dir.index[name], &dir.records[i])
	}
	return dir
}

// Records returns all records in original order.
func (d *Directory) Records() []Record {
	return d.records
}

// At returns the record at the given source order. Useful when a caller
// holds record pointers and needs to walk the directory with matching
// identity.
func (d *Directory) At(i int) *Record {
	return &d.records[i]
}

// ByName returns the records whose trimmed name equals the trimmed input,
// in original appearance order. Returns nil when no record matches.
func (d *Directory) ByName(name string) []*Record {
	return d.index[strings.TrimSpace(name)]
}

// Len returns the number of records in the directory.
func (d *Directory) Len() int {
	return len(d.records)
}

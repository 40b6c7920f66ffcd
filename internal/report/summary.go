package report

import (
	"contactsheet/internal/contacts"
	"contactsheet/internal/match"
)

// Summary is the outcome of one matching run.
type Summary struct {
	TotalTags         int      `json:"total_tags"`
	MatchedTags       int      `json:"matched_tags"`
	UnmatchedTags     []string `json:"unmatched_tags,omitempty"`
	TotalContacts     int      `json:"total_contacts"`
	MatchedContacts   int      `json:"matched_contacts"`
	UnmatchedContacts []string `json:"unmatched_contacts,omitempty"`
}

// Summarize tallies the assignments against the directory they were
// resolved from. A contact counts as matched when any assignment
// references it; the unmatched lists preserve input order.
func Summarize(assignments []match.Assignment, dir *contacts.Directory) Summary {
	summary := Summary{
		TotalTags:     len(assignments),
		TotalContacts: dir.Len(),
	}

	referenced := map[*contacts.Record]struct{}{}
	for _, assignment := range assignments {
		if !assignment.Matched() {
			summary.UnmatchedTags = append(summary.UnmatchedTags, assignment.Tag.RawLabel)
			continue
		}
		summary.MatchedTags++
		for _, record := range assignment.Resolved {
			referenced[record] = struct{}{}
		}
	}
	summary.MatchedContacts = len(referenced)

	for i := 0; i < dir.Len(); i++ {
		record := dir.At(i)
		if _, ok := referenced[record]; !ok {
			summary.UnmatchedContacts = append(summary.UnmatchedContacts, record.Name)
		}
	}
	return summary
}

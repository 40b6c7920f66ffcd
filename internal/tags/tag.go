package tags

// Tag is one identity tag extracted from a photo or folder. RawLabel is
// the tag text as found in the source; Context carries the surrounding
// folder label ("Name Affiliation" or a bare name) when the tag was
// derived from a folder, and is empty for photo-embedded tags. Source is
// the path the tag came from.
type Tag struct {
	RawLabel string
	Context  string
	Source   string
}

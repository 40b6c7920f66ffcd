// Package tags discovers identity tags in a photo collection.
//
// Tags come from two places: the names of the immediate subdirectories of
// the source root, and keyword entries embedded in (or sitting beside)
// the image files themselves. Extraction is best-effort; a file that
// cannot be read or parsed contributes no tags and no error.
package tags

package tags

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"contactsheet/internal/logging"
	"contactsheet/internal/services"
)

// FromPhotos walks root and returns one tag per (photo, keyword) pair
// found in the image files' embedded XMP packets and sidecars. A person
// tagged in several photos yields one tag per photo, each pointing at
// its own image, so every tagged photo reaches the output sinks.
// Duplicates are dropped within a single photo only. Unreadable or
// unparsable files are logged at debug level and skipped.
func FromPhotos(root string, logger *slog.Logger) ([]Tag, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var out []Tag
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !IsImage(entry.Name()) {
			return nil
		}
		for _, keyword := range photoKeywords(path, logger) {
			out = append(out, Tag{RawLabel: keyword, Source: path})
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scan", "walk_photos", "walking photo tree", err)
	}
	return out, nil
}

// photoKeywords merges embedded and sidecar keywords for one image,
// embedded first, without duplicates.
func photoKeywords(path string, logger *slog.Logger) []string {
	embedded, err := xmpKeywords(path)
	if err != nil {
		logger.Debug("skipping embedded keywords", logging.String("path", path), logging.Error(err))
	}
	sidecar, err := sidecarKeywords(path)
	if err != nil {
		logger.Debug("skipping sidecar keywords", logging.String("path", path), logging.Error(err))
	}

	merged := make([]string, 0, len(embedded)+len(sidecar))
	seen := map[string]struct{}{}
	for _, keyword := range append(embedded, sidecar...) {
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}
		merged = append(merged, keyword)
	}
	return merged
}

package tags

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contactsheet/internal/services"
)

// FromFolders returns one tag per immediate subdirectory of root, in
// lexical order. The folder name is both the raw label and the context,
// so the resolver can split it into a name and an affiliation. Hidden
// directories and any directory named exclude are skipped; exclude is
// normally the photo output subdirectory so reruns over an output tree
// do not tag their own artifacts.
func FromFolders(root, exclude string) ([]Tag, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scan", "read_source", "reading source directory", err)
	}

	var out []Tag
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == exclude {
			continue
		}
		out = append(out, Tag{
			RawLabel: name,
			Context:  name,
			Source:   filepath.Join(root, name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RawLabel < out[j].RawLabel })
	return out, nil
}

// FolderImages lists the image files directly inside a tagged folder,
// in lexical order. Nested directories are not descended into.
func FolderImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scan", "read_folder", "reading tagged folder", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsImage(entry.Name()) {
			images = append(images, filepath.Join(folder, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
	".tiff": {},
	".tif":  {},
}

// IsImage reports whether the file name carries a supported image
// extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

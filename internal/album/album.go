package album

import (
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"contactsheet/internal/config"
	"contactsheet/internal/contacts"
	"contactsheet/internal/logging"
	"contactsheet/internal/match"
	"contactsheet/internal/services"
	"contactsheet/internal/tags"
)

//go:embed template.gohtml
var pageTemplate string

// Builder renders an album page into the output directory.
type Builder struct {
	title     string
	fileName  string
	perRow    int
	outputDir string
	logger    *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		title:     cfg.Album.Title,
		fileName:  cfg.Album.FileName,
		perRow:    cfg.Album.PhotosPerRow,
		outputDir: cfg.Paths.OutputDir,
		logger:    logging.NewComponentLogger(logger, "album"),
	}
}

// Photo is one image inside a section, ordered by capture time.
type Photo struct {
	Href  string
	Taken time.Time
}

// Section is one contact's block on the page. SearchText is the
// lowercased haystack the client-side filter matches against.
type Section struct {
	Name        string
	Affiliation string
	Title       string
	Phones      []string
	Emails      []string
	Photos      []Photo
	SearchText  string
}

type page struct {
	Title     string
	PerRow    int
	Generated time.Time
	Sections  []Section
	Unmatched []Photo
}

// Build renders the album from the given assignments and returns the
// path of the written file. Assignments resolving to the same contact
// merge into one section; photos inside a section sort by capture date.
func (b *Builder) Build(ctx context.Context, assignments []match.Assignment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrTransient, "album", "build", "run cancelled", err)
	}
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "album", "prepare_output", "creating output directory", err)
	}

	data := page{
		Title:     b.title,
		PerRow:    b.perRow,
		Generated: time.Now(),
	}

	sections := map[*contacts.Record]int{}
	for _, assignment := range assignments {
		photos := b.assignmentPhotos(assignment)
		if !assignment.Matched() {
			data.Unmatched = append(data.Unmatched, photos...)
			continue
		}
		for _, record := range assignment.Resolved {
			idx, ok := sections[record]
			if !ok {
				idx = len(data.Sections)
				sections[record] = idx
				data.Sections = append(data.Sections, newSection(*record))
			}
			data.Sections[idx].Photos = append(data.Sections[idx].Photos, photos...)
		}
	}
	for i := range data.Sections {
		sortPhotos(data.Sections[i].Photos)
	}
	sortPhotos(data.Unmatched)

	tmpl, err := template.New("album").Parse(pageTemplate)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "album", "render", "parsing album template", err)
	}

	target := filepath.Join(b.outputDir, b.fileName)
	f, err := os.Create(target)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "album", "render", "creating album file", err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return "", services.Wrap(services.ErrValidation, "album", "render", "rendering album", err)
	}
	if err := f.Close(); err != nil {
		return "", services.Wrap(services.ErrValidation, "album", "render", "writing album", err)
	}
	b.logger.Info("album written",
		logging.String("path", target),
		logging.Int("sections", len(data.Sections)),
		logging.Int("unmatched", len(data.Unmatched)))
	return target, nil
}

func newSection(record contacts.Record) Section {
	haystack := []string{record.Name, record.Affiliation}
	haystack = append(haystack, record.Phones...)
	haystack = append(haystack, record.Emails...)
	return Section{
		Name:        record.Name,
		Affiliation: record.Affiliation,
		Title:       record.Title,
		Phones:      record.Phones,
		Emails:      record.Emails,
		SearchText:  strings.ToLower(strings.Join(haystack, " ")),
	}
}

// assignmentPhotos lists the photos behind one assignment with hrefs
// relative to the album file. Unreadable folders are debug-logged and
// contribute nothing; the album renders with whatever is reachable.
func (b *Builder) assignmentPhotos(assignment match.Assignment) []Photo {
	var paths []string
	if assignment.Tag.Context != "" {
		listed, err := tags.FolderImages(assignment.Tag.Source)
		if err != nil {
			b.logger.Debug("skipping folder", logging.String("source", assignment.Tag.Source), logging.Error(err))
			return nil
		}
		paths = listed
	} else if assignment.Tag.Source != "" {
		paths = []string{assignment.Tag.Source}
	}

	photos := make([]Photo, 0, len(paths))
	for _, path := range paths {
		photos = append(photos, Photo{Href: b.relativeHref(path), Taken: tags.CaptureDate(path)})
	}
	return photos
}

func (b *Builder) relativeHref(path string) string {
	rel, err := filepath.Rel(b.outputDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func sortPhotos(photos []Photo) {
	sort.SliceStable(photos, func(i, j int) bool { return photos[i].Taken.Before(photos[j].Taken) })
}

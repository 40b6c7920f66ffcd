package organize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"contactsheet/internal/config"
	"contactsheet/internal/contacts"
	"contactsheet/internal/fileutil"
	"contactsheet/internal/logging"
	"contactsheet/internal/match"
	"contactsheet/internal/services"
	"contactsheet/internal/tags"
	"contactsheet/internal/textutil"
)

const lockFileName = ".contactsheet.lock"

// Organizer writes matched assignments into the output directory. Writes
// are serialized within a run; the lock file guards across runs.
type Organizer struct {
	outputDir    string
	photoSubdir  string
	verifiedCopy bool
	overwrite    bool
	logger       *slog.Logger
}

// Result tallies what a run produced.
type Result struct {
	Folders      int `json:"folders"`
	ContactFiles int `json:"contact_files"`
	PhotosCopied int `json:"photos_copied"`
}

func New(cfg *config.Config, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		outputDir:    cfg.Paths.OutputDir,
		photoSubdir:  cfg.Organize.PhotoSubdir,
		verifiedCopy: cfg.Organize.VerifiedCopy,
		overwrite:    cfg.Organize.OverwriteExisting,
		logger:       logging.NewComponentLogger(logger, "organize"),
	}
}

// Run writes one output directory per matched assignment. Unmatched
// assignments are skipped; they belong to the report, not the tree.
func (o *Organizer) Run(ctx context.Context, assignments []match.Assignment) (Result, error) {
	var result Result

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "organize", "prepare_output", "creating output directory", err)
	}

	lock := flock.New(filepath.Join(o.outputDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "organize", "acquire_lock", "locking output directory", err)
	}
	if !ok {
		return result, services.Wrap(services.ErrTransient, "organize", "acquire_lock", "another run is writing to this output directory", nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			o.logger.Warn("releasing output lock", logging.Error(unlockErr))
		}
	}()

	photoDirs := map[*contacts.Record]string{}
	for _, assignment := range assignments {
		if err := ctx.Err(); err != nil {
			return result, services.Wrap(services.ErrTransient, "organize", "write_tree", "run cancelled", err)
		}
		if !assignment.Matched() {
			continue
		}
		if err := o.writeAssignment(assignment, photoDirs, &result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (o *Organizer) writeAssignment(assignment match.Assignment, photoDirs map[*contacts.Record]string, result *Result) error {
	target, fresh, err := o.targetDir(assignment, photoDirs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return services.Wrap(services.ErrValidation, "organize", "create_folder", "creating contact folder", err)
	}
	if fresh {
		result.Folders++

		for _, record := range assignment.Resolved {
			name := textutil.SanitizeFileName(record.Name)
			path := filepath.Join(target, name+".txt")
			if err := os.WriteFile(path, []byte(ContactText(*record)), 0o644); err != nil {
				return services.Wrap(services.ErrValidation, "organize", "write_contact", "writing contact file", err)
			}
			result.ContactFiles++
		}
	}

	images, err := o.sourceImages(assignment)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	photoDir := filepath.Join(target, o.photoSubdir)
	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		return services.Wrap(services.ErrValidation, "organize", "create_photo_dir", "creating photo directory", err)
	}
	for _, image := range images {
		copied, err := o.copyImage(image, photoDir)
		if err != nil {
			return err
		}
		if copied {
			result.PhotosCopied++
		}
	}
	o.logger.Info("organized",
		logging.String("label", assignment.Tag.RawLabel),
		logging.String("target", target),
		logging.Int("photos", len(images)))
	return nil
}

// targetDir picks the output directory for one assignment. Folder tags
// reuse the source folder's name so two contacts sharing a name cannot
// collide; photo tags group by the first resolved contact, so every
// photo of one person lands in the same directory within a run. Without
// overwrite_existing an existing directory gets a numbered sibling
// instead. The second return reports whether the directory is new to
// this run and still needs its contact files.
func (o *Organizer) targetDir(assignment match.Assignment, photoDirs map[*contacts.Record]string) (string, bool, error) {
	var name string
	if assignment.Tag.Context == "" {
		if target, ok := photoDirs[assignment.Resolved[0]]; ok {
			return target, false, nil
		}
		name = assignment.Resolved[0].Name
	} else {
		name = filepath.Base(assignment.Tag.Source)
	}

	target := filepath.Join(o.outputDir, textutil.SanitizeFileName(name))
	if !o.overwrite {
		unique, err := fileutil.UniquePath(target)
		if err != nil {
			return "", false, services.Wrap(services.ErrValidation, "organize", "create_folder", "choosing contact folder name", err)
		}
		target = unique
	}
	if assignment.Tag.Context == "" {
		photoDirs[assignment.Resolved[0]] = target
	}
	return target, true, nil
}

// sourceImages lists the photos belonging to the assignment: the folder
// contents for a folder tag, the single tagged image otherwise.
func (o *Organizer) sourceImages(assignment match.Assignment) ([]string, error) {
	if assignment.Tag.Context != "" {
		return tags.FolderImages(assignment.Tag.Source)
	}
	if assignment.Tag.Source == "" {
		return nil, nil
	}
	return []string{assignment.Tag.Source}, nil
}

func (o *Organizer) copyImage(src, photoDir string) (bool, error) {
	dst := filepath.Join(photoDir, filepath.Base(src))
	if !o.overwrite {
		unique, err := fileutil.UniquePath(dst)
		if err != nil {
			return false, services.Wrap(services.ErrValidation, "organize", "copy_photo", "choosing photo name", err)
		}
		dst = unique
	}

	copyFn := fileutil.CopyFile
	if o.verifiedCopy {
		copyFn = fileutil.CopyFileVerified
	}
	if err := copyFn(src, dst); err != nil {
		return false, services.Wrap(services.ErrValidation, "organize", "copy_photo",
			fmt.Sprintf("copying %s", filepath.Base(src)), err)
	}
	return true, nil
}

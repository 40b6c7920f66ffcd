package tags

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureDate returns when a photo was taken, preferring the EXIF
// DateTimeOriginal field and falling back to the file's modification
// time. Used for ordering photos inside an album section.
func CaptureDate(path string) time.Time {
	if taken, ok := exifDate(path); ok {
		return taken
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	taken, err := meta.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}

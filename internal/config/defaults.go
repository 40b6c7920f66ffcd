package config

const (
	defaultOutputDir     = "~/contactsheet"
	defaultLogDir        = "~/.local/share/contactsheet/logs"
	defaultPhotoSubdir   = "photo"
	defaultAlbumTitle    = "Contact Album"
	defaultAlbumFileName = "album.html"
	defaultPhotosPerRow  = 4
	defaultMatchWorkers  = 4
	maxMatchWorkers      = 32
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Organize: Organize{
			PhotoSubdir:  defaultPhotoSubdir,
			VerifiedCopy: true,
		},
		Album: Album{
			Title:        defaultAlbumTitle,
			FileName:     defaultAlbumFileName,
			PhotosPerRow: defaultPhotosPerRow,
		},
		Matching: Matching{
			Workers: defaultMatchWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}

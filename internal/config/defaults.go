package config

const (
	defaultLibraryDir   = "~/.local/share/lightbox/library"
	defaultExportDir    = "~/.local/share/lightbox/export"
	defaultLogDir       = "~/.local/share/lightbox/logs"
	defaultDatabasePath = "~/.local/share/lightbox/photos.db"
	defaultTrashMode    = "auto"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	defaultDwellMillis = 400
	defaultFrameRate   = 30
	defaultTickBudget  = 90
	defaultCanvasSize  = 160

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:   defaultLibraryDir,
			ExportDir:    defaultExportDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Library: Library{
			TrashMode: defaultTrashMode,
		},
		Playback: Playback{
			DwellMillis: defaultDwellMillis,
			FrameRate:   defaultFrameRate,
			TickBudget:  defaultTickBudget,
			CanvasSize:  defaultCanvasSize,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizePlayback()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	c.Library.TrashMode = strings.ToLower(strings.TrimSpace(c.Library.TrashMode))
	if c.Library.TrashMode == "" {
		c.Library.TrashMode = defaultTrashMode
	}

	// The trash root is the one environment-derived path, resolved here so
	// no other component reads ambient state. A machine with no resolvable
	// home leaves it empty and delete falls back per trash_mode.
	c.Library.TrashDir = strings.TrimSpace(c.Library.TrashDir)
	if c.Library.TrashDir == "" {
		if base := os.Getenv("XDG_DATA_HOME"); base != "" {
			c.Library.TrashDir = filepath.Join(base, "Trash")
		} else if home, err := os.UserHomeDir(); err == nil {
			c.Library.TrashDir = filepath.Join(home, ".local", "share", "Trash")
		}
		return nil
	}
	expanded, err := expandPath(c.Library.TrashDir)
	if err != nil {
		return fmt.Errorf("library.trash_dir: %w", err)
	}
	c.Library.TrashDir = expanded
	return nil
}

func (c *Config) normalizePlayback() {
	if c.Playback.DwellMillis <= 0 {
		c.Playback.DwellMillis = defaultDwellMillis
	}
	if c.Playback.FrameRate <= 0 {
		c.Playback.FrameRate = defaultFrameRate
	}
	if c.Playback.TickBudget <= 0 {
		c.Playback.TickBudget = defaultTickBudget
	}
	if c.Playback.CanvasSize <= 0 {
		c.Playback.CanvasSize = defaultCanvasSize
	}
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobeBinary) == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

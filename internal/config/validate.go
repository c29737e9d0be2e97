package config

import "fmt"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == c.Paths.ExportDir {
		return fmt.Errorf("paths.export_dir must differ from paths.library_dir (%s)", c.Paths.LibraryDir)
	}
	return nil
}

func (c *Config) validateLibrary() error {
	switch c.Library.TrashMode {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("library.trash_mode must be auto, always, or never, got %q", c.Library.TrashMode)
	}
}

func (c *Config) validatePlayback() error {
	if c.Playback.FrameRate > 120 {
		return fmt.Errorf("playback.frame_rate must be at most 120, got %d", c.Playback.FrameRate)
	}
	if c.Playback.CanvasSize > 4096 {
		return fmt.Errorf("playback.canvas_size must be at most 4096, got %d", c.Playback.CanvasSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

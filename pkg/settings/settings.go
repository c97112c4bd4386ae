// Package settings holds the application settings: the directories the file
// dialogs start in and the machining defaults used when a toolpath is cut.
//
// Settings live in an INI file with a single section:
//
//	[cncbox]
//	boxdirectory   = /home/me/boxes
//	gcodedirectory = /home/me/gcode
//	toolradius     = 1.5
//	cutdepth       = 0
//	maxpassdepth   = 3
//	safez          = 5
//	feedrate       = 600
//	plungerate     = 200
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/gcode"
	"github.com/chazu/cncbox/pkg/logging"
	"github.com/chazu/cncbox/pkg/toolpath"
	"gopkg.in/ini.v1"
)

// Section is the INI section holding the settings.
const Section = "cncbox"

// FileName is the settings file name inside the user config directory.
const FileName = "cncbox.ini"

// Settings are the persisted application preferences. A zero CutDepth cuts
// exactly through the wall of whatever box is loaded.
type Settings struct {
	BoxDirectory   string  `ini:"boxdirectory"`
	GCodeDirectory string  `ini:"gcodedirectory"`
	ToolRadius     float64 `ini:"toolradius"`
	CutDepth       float64 `ini:"cutdepth"`
	MaxPassDepth   float64 `ini:"maxpassdepth"`
	SafeZ          float64 `ini:"safez"`
	FeedRate       float64 `ini:"feedrate"`
	PlungeRate     float64 `ini:"plungerate"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	tc := toolpath.DefaultConfig()
	gc := gcode.DefaultConfig()
	p := box.DefaultParams()
	return Settings{
		ToolRadius:   p.ToolRadius,
		MaxPassDepth: tc.MaxPassDepth,
		SafeZ:        tc.SafeZ,
		FeedRate:     gc.FeedRate,
		PlungeRate:   gc.PlungeRate,
	}
}

// DefaultPath returns the settings file location in the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("settings: %w", err)
	}
	return filepath.Join(dir, "cncbox", FileName), nil
}

// Load reads settings from path. A missing file yields the defaults, and
// keys missing from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	f, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Logger().Debug("settings: no file, using defaults", "path", path)
			return s, nil
		}
		return s, fmt.Errorf("settings: load %s: %w", path, err)
	}
	if err := f.Section(Section).StrictMapTo(&s); err != nil {
		return Default(), fmt.Errorf("settings: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("settings: %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path, creating the parent directory if needed.
func (s Settings) Save(path string) error {
	f := ini.Empty()
	if err := f.Section(Section).ReflectFrom(&s); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("settings: save %s: %w", path, err)
	}
	logging.Logger().Info("settings: saved", "path", path)
	return nil
}

// Validate checks the machining values.
func (s Settings) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, v))
		}
	}
	if s.ToolRadius < 0 {
		errs = append(errs, fmt.Errorf("toolradius must not be negative, got %g", s.ToolRadius))
	}
	if s.CutDepth < 0 {
		errs = append(errs, fmt.Errorf("cutdepth must not be negative, got %g", s.CutDepth))
	}
	positive("safez", s.SafeZ)
	positive("feedrate", s.FeedRate)
	positive("plungerate", s.PlungeRate)
	if s.MaxPassDepth < 0 {
		errs = append(errs, fmt.Errorf("maxpassdepth must not be negative, got %g", s.MaxPassDepth))
	}
	return errors.Join(errs...)
}

// Depth returns how deep to cut a panel of the given wall thickness.
func (s Settings) Depth(wall float64) float64 {
	if s.CutDepth > 0 {
		return s.CutDepth
	}
	return wall
}

// Toolpath returns the emitter configuration.
func (s Settings) Toolpath() toolpath.Config {
	return toolpath.Config{SafeZ: s.SafeZ, MaxPassDepth: s.MaxPassDepth}
}

// GCode returns the G-code writer configuration.
func (s Settings) GCode(comment string) gcode.Config {
	return gcode.Config{FeedRate: s.FeedRate, PlungeRate: s.PlungeRate, SafeZ: s.SafeZ, Comment: comment}
}

// Package settings holds the persisted device configuration.
package settings

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"glow/glowos/fsys"
)

// Path is the settings file location on the device filesystem.
const Path = "/settings.toml"

// Settings is the device configuration, stored as TOML.
type Settings struct {
	Hostname string `toml:"hostname"`

	Wifi struct {
		SSID       string `toml:"ssid"`
		Passphrase string `toml:"passphrase"`
	} `toml:"wifi"`

	HTTP struct {
		Addr string `toml:"addr"`
	} `toml:"http"`

	Display struct {
		Brightness   uint8  `toml:"brightness"`
		SlotDuration uint32 `toml:"slot_duration_ms"`
	} `toml:"display"`
}

// Default returns the factory configuration.
func Default() Settings {
	var s Settings
	s.Hostname = "glow"
	s.HTTP.Addr = ":8080"
	s.Display.Brightness = 128
	s.Display.SlotDuration = 30000
	return s
}

// Load reads the settings file. A missing file yields the defaults and
// writes them back, so the file exists for the next edit.
func Load(fs fsys.FileSystem) (Settings, error) {
	data, err := fsys.ReadFile(fs, Path)
	if errors.Is(err, fsys.ErrNotFound) {
		s := Default()
		if err := Save(fs, s); err != nil {
			return s, err
		}
		return s, nil
	}
	if err != nil {
		return Default(), err
	}

	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", Path, err)
	}
	return s, nil
}

// Save writes the settings file.
func Save(fs fsys.FileSystem, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Path, err)
	}
	return fsys.WriteFile(fs, Path, data)
}

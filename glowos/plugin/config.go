package plugin

import (
	"encoding/json"
	"errors"
	"fmt"

	"glow/glowos/fsys"
)

// ConfigDir holds one JSON file per plugin instance.
const ConfigDir = "/configuration"

// ConfigPath returns the config file path for a plugin instance.
func ConfigPath(uid uint16) string {
	return fmt.Sprintf("%s/%d.json", ConfigDir, uid)
}

// LoadConfig reads the instance config into v.
func LoadConfig(fs fsys.FileSystem, uid uint16, v any) error {
	data, err := fsys.ReadFile(fs, ConfigPath(uid))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config %s: %w", ConfigPath(uid), err)
	}
	return nil
}

// SaveConfig writes v as the instance config.
func SaveConfig(fs fsys.FileSystem, uid uint16, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config %s: %w", ConfigPath(uid), err)
	}
	if err := fs.Mkdir(ConfigDir); err != nil {
		return err
	}
	return fsys.WriteFile(fs, ConfigPath(uid), data)
}

// RemoveConfig deletes the instance config, ending the instance's
// persistence. A missing file is not an error.
func RemoveConfig(fs fsys.FileSystem, uid uint16) error {
	err := fs.Remove(ConfigPath(uid))
	if errors.Is(err, fsys.ErrNotFound) {
		return nil
	}
	return err
}

// LoadOrCreateConfig reads the instance config into v, creating the file
// from v's current values when it does not exist yet.
func LoadOrCreateConfig(fs fsys.FileSystem, uid uint16, v any) error {
	err := LoadConfig(fs, uid, v)
	if errors.Is(err, fsys.ErrNotFound) {
		return SaveConfig(fs, uid, v)
	}
	return err
}

package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/juho05/log"

	"github.com/gunnarhm/mkcontrol/repos"
)

type settingsRepository struct {
	path string
}

func NewSettingsRepository(path string) repos.SettingsRepository {
	return &settingsRepository{
		path: path,
	}
}

func (s *settingsRepository) Load() repos.Settings {
	settings := repos.Settings{
		Sessions: make(map[string]int64),
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Failed to read settings file %s: %s. Starting with empty settings.", s.path, err)
		}
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Warnf("Settings file %s is corrupt: %s. Starting with empty settings.", s.path, err)
		return repos.Settings{
			Sessions: make(map[string]int64),
		}
	}
	if settings.Sessions == nil {
		settings.Sessions = make(map[string]int64)
	}
	return settings
}

// Save writes the blob to a temporary file in the destination directory and
// renames it over the destination, so a crash mid-write never leaves a
// corrupt settings file behind.
func (s *settingsRepository) Save(settings repos.Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/biograf/biograf/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before
// modifying a config file
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate: .back3 -> delete, .back2 -> .back3, .back1 -> .back2,
	// current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete oldest backup")
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "create .back1")
	}

	return nil
}

// loadOrInitialize reads the TOML file at path into a generic map, or
// returns an empty map when the file does not exist yet.
func loadOrInitialize(path string) (map[string]interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}

	var settings map[string]interface{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, errors.Wrap(err, "read config file")
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	return settings, nil
}

// save writes the settings map to path as TOML, rotating backups first and
// marking the write so a running watcher does not reload its own change.
func save(settings map[string]interface{}, path string) error {
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "create backup")
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "write config file")
	}
	return nil
}

// SetKey persists a single dotted key into the config file at path,
// creating the file and intermediate tables as needed. Values survive a
// round trip through TOML, so everything else in the file is preserved.
func SetKey(path, key string, value interface{}) error {
	if key == "" {
		return errors.New("config key cannot be empty")
	}
	segments := strings.Split(key, ".")
	for _, seg := range segments {
		if seg == "" {
			return errors.Newf("invalid config key %q", key)
		}
	}

	settings, err := loadOrInitialize(path)
	if err != nil {
		return err
	}

	table := settings
	for _, seg := range segments[:len(segments)-1] {
		child, ok := table[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			table[seg] = child
		}
		table = child
	}
	table[segments[len(segments)-1]] = value

	return save(settings, path)
}

// UnsetKey removes a dotted key from the config file at path. Removing a
// key that is not present is a no-op.
func UnsetKey(path, key string) error {
	segments := strings.Split(key, ".")

	settings, err := loadOrInitialize(path)
	if err != nil {
		return err
	}

	table := settings
	for _, seg := range segments[:len(segments)-1] {
		child, ok := table[seg].(map[string]interface{})
		if !ok {
			return nil
		}
		table = child
	}
	if _, ok := table[segments[len(segments)-1]]; !ok {
		return nil
	}
	delete(table, segments[len(segments)-1])

	return save(settings, path)
}

// Package config owns the biograf configuration: TOML files merged with
// environment variables through viper, validation, persistence with rotating
// backups, and a file watcher for live reload.
package config

import (
	"path/filepath"
)

// Config is the full biograf configuration tree.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	ID       IDConfig       `mapstructure:"id"`
	Dedup    DedupConfig    `mapstructure:"dedup"`
	Match    MatchConfig    `mapstructure:"match"`
	Search   SearchConfig   `mapstructure:"search"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
}

// StoreConfig locates the storage roots. Only data_dir is usually set; the
// three subdirectories derive from it unless individually overridden.
type StoreConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	PersonsDir string `mapstructure:"persons_dir"`
	BackupDir  string `mapstructure:"backup_dir"`
	ArchiveDir string `mapstructure:"archive_dir"`
}

// EffectivePersonsDir returns persons_dir, or data_dir/persons when unset.
func (s StoreConfig) EffectivePersonsDir() string {
	if s.PersonsDir != "" {
		return s.PersonsDir
	}
	return filepath.Join(s.DataDir, "persons")
}

// EffectiveBackupDir returns backup_dir, or data_dir/backups when unset.
func (s StoreConfig) EffectiveBackupDir() string {
	if s.BackupDir != "" {
		return s.BackupDir
	}
	return filepath.Join(s.DataDir, "backups")
}

// EffectiveArchiveDir returns archive_dir, or data_dir/archive when unset.
func (s StoreConfig) EffectiveArchiveDir() string {
	if s.ArchiveDir != "" {
		return s.ArchiveDir
	}
	return filepath.Join(s.DataDir, "archive")
}

// IDConfig selects the person identifier format.
type IDConfig struct {
	Format string `mapstructure:"format"` // gedcom, gfr, custom, compact
}

// DedupConfig tunes duplicate detection on create.
type DedupConfig struct {
	Threshold     int  `mapstructure:"threshold"`      // confidence at which a record counts as a duplicate
	WarnThreshold int  `mapstructure:"warn_threshold"` // confidence at which a near-match is logged
	Strict        bool `mapstructure:"strict"`         // error on duplicates instead of returning the existing record
}

// MatchConfig tunes the similarity engine.
type MatchConfig struct {
	NameWeight       float64 `mapstructure:"name_weight"`
	BirthYearWeight  float64 `mapstructure:"birth_year_weight"`
	ParentsWeight    float64 `mapstructure:"parents_weight"`
	LocationWeight   float64 `mapstructure:"location_weight"`
	YearCutoff       int     `mapstructure:"year_cutoff"`        // birth-year difference beyond which the year score is 0
	ConflictGapYears int     `mapstructure:"conflict_gap_years"` // difference at which conflicting years veto a match
}

// SearchConfig tunes fuzzy search.
type SearchConfig struct {
	Threshold int `mapstructure:"threshold"` // minimum confidence for a fuzzy search hit
}

// RegistryConfig points at user-maintained normalization data files.
type RegistryConfig struct {
	LocationsFile string `mapstructure:"locations_file"` // TOML table of place abbreviations
	NicknamesFile string `mapstructure:"nicknames_file"` // TOML table of nickname -> canonical name
}

// LogConfig controls logging output.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"` // debug-level logging
	JSON    bool `mapstructure:"json"`    // machine-readable log lines
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

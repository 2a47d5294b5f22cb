package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Storage defaults; subdirectory keys stay empty so they derive from
	// data_dir unless a user pins them individually
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("store.persons_dir", "")
	v.SetDefault("store.backup_dir", "")
	v.SetDefault("store.archive_dir", "")

	// Identifier defaults
	v.SetDefault("id.format", "gedcom")

	// Duplicate detection defaults
	v.SetDefault("dedup.threshold", 95)
	v.SetDefault("dedup.warn_threshold", 85)
	v.SetDefault("dedup.strict", false)

	// Similarity engine defaults. Weights are relative; scoring renormalizes
	// over the fields present so they need not total 1.0
	v.SetDefault("match.name_weight", 0.40)
	v.SetDefault("match.birth_year_weight", 0.20)
	v.SetDefault("match.parents_weight", 0.20)
	v.SetDefault("match.location_weight", 0.20)
	v.SetDefault("match.year_cutoff", 5)
	v.SetDefault("match.conflict_gap_years", 40)

	// Search defaults
	v.SetDefault("search.threshold", 80)

	// Registry data files are opt-in
	v.SetDefault("registry.locations_file", "")
	v.SetDefault("registry.nicknames_file", "")

	// Logging defaults
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.json", false)
}

// BindEnvVars explicitly binds the settings that are commonly overridden in
// scripts and CI to environment variables
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("store.data_dir", "BIOGRAF_STORE_DATA_DIR")
	v.BindEnv("id.format", "BIOGRAF_ID_FORMAT")
	v.BindEnv("dedup.strict", "BIOGRAF_DEDUP_STRICT")
	v.BindEnv("log.verbose", "BIOGRAF_LOG_VERBOSE")
	v.BindEnv("log.json", "BIOGRAF_LOG_JSON")
}

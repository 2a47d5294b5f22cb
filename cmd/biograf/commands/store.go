package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biograf/biograf/config"
	"github.com/biograf/biograf/errors"
	"github.com/biograf/biograf/locations"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/match"
	"github.com/biograf/biograf/names"
	"github.com/biograf/biograf/persons"
)

// LoadConfig resolves configuration for a command run, honoring the global
// --config flag.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Root().PersistentFlags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// openStore assembles the person store from configuration: registries feed
// the matcher, the matcher and generator feed the store.
func openStore(cmd *cobra.Command) (*persons.Store, *config.Config, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	matcher, err := buildMatcher(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Commands that define an --id-format flag may override the configured
	// identifier format for this run.
	idFormat := cfg.ID.Format
	if f := cmd.Flags().Lookup("id-format"); f != nil && f.Changed {
		idFormat = f.Value.String()
	}
	format, err := persons.ParseIDFormat(idFormat)
	if err != nil {
		return nil, nil, err
	}

	policy := persons.DuplicateReturnExisting
	if cfg.Dedup.Strict {
		policy = persons.DuplicateError
	}

	store, err := persons.Open(persons.Options{
		PersonsDir:     cfg.Store.EffectivePersonsDir(),
		BackupDir:      cfg.Store.EffectiveBackupDir(),
		ArchiveDir:     cfg.Store.EffectiveArchiveDir(),
		Matcher:        matcher,
		Generator:      persons.NewGenerator(format),
		DedupThreshold: cfg.Dedup.Threshold,
		WarnThreshold:  cfg.Dedup.WarnThreshold,
		Policy:         policy,
		Logger:         logger.ComponentLogger(logger.ComponentStore),
	})
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// buildRegistries constructs the lookup registries with any user extension
// files named in configuration merged on top of the built-in tables.
func buildRegistries(cfg *config.Config) (*locations.Registry, *names.Registry, error) {
	locs := locations.NewRegistry()
	if cfg.Registry.LocationsFile != "" {
		if err := locs.LoadFile(cfg.Registry.LocationsFile); err != nil {
			return nil, nil, errors.Wrapf(err, "load locations registry %s", cfg.Registry.LocationsFile)
		}
	}
	nicks := names.NewRegistry()
	if cfg.Registry.NicknamesFile != "" {
		if err := nicks.LoadFile(cfg.Registry.NicknamesFile); err != nil {
			return nil, nil, errors.Wrapf(err, "load nicknames registry %s", cfg.Registry.NicknamesFile)
		}
	}
	return locs, nicks, nil
}

// buildMatcher constructs the similarity engine from configuration.
func buildMatcher(cfg *config.Config) (*match.Matcher, error) {
	locs, nicks, err := buildRegistries(cfg)
	if err != nil {
		return nil, err
	}
	return match.New(match.Config{
		Weights: match.Weights{
			Name:      cfg.Match.NameWeight,
			BirthYear: cfg.Match.BirthYearWeight,
			Parents:   cfg.Match.ParentsWeight,
			Location:  cfg.Match.LocationWeight,
		},
		YearCutoff:       cfg.Match.YearCutoff,
		ConflictGapYears: cfg.Match.ConflictGapYears,
		Locations:        locs,
		Nicknames:        nicks,
	}), nil
}

// parseValue maps a CLI value string onto a typed patch value: integers and
// booleans convert, comma-separated values become string lists.
func parseValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return raw
}

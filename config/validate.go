package config

import (
	"os"

	"github.com/biograf/biograf/errors"
	"github.com/biograf/biograf/persons"
)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Store.DataDir == "" && c.Store.PersonsDir == "" {
		return errors.New("store.data_dir cannot be empty (set it or store.persons_dir)")
	}

	if _, err := persons.ParseIDFormat(c.ID.Format); err != nil {
		return errors.Wrap(err, "id.format")
	}

	// Thresholds are confidence percentages
	if c.Dedup.Threshold < 0 || c.Dedup.Threshold > 100 {
		return errors.Newf("dedup.threshold must be 0-100, got %d", c.Dedup.Threshold)
	}
	if c.Dedup.WarnThreshold < 0 || c.Dedup.WarnThreshold > 100 {
		return errors.Newf("dedup.warn_threshold must be 0-100, got %d", c.Dedup.WarnThreshold)
	}
	if c.Dedup.WarnThreshold > c.Dedup.Threshold {
		return errors.Newf("dedup.warn_threshold (%d) cannot exceed dedup.threshold (%d)",
			c.Dedup.WarnThreshold, c.Dedup.Threshold)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 100 {
		return errors.Newf("search.threshold must be 0-100, got %d", c.Search.Threshold)
	}

	// Weights: negative is invalid, all-zero leaves nothing to score
	for key, w := range map[string]float64{
		"match.name_weight":       c.Match.NameWeight,
		"match.birth_year_weight": c.Match.BirthYearWeight,
		"match.parents_weight":    c.Match.ParentsWeight,
		"match.location_weight":   c.Match.LocationWeight,
	} {
		if w < 0 {
			return errors.Newf("%s must be >= 0, got %f", key, w)
		}
	}
	if c.Match.NameWeight+c.Match.BirthYearWeight+c.Match.ParentsWeight+c.Match.LocationWeight == 0 {
		return errors.New("match weights cannot all be zero")
	}

	if c.Match.YearCutoff < 0 {
		return errors.Newf("match.year_cutoff must be >= 0, got %d", c.Match.YearCutoff)
	}
	if c.Match.ConflictGapYears < 0 {
		return errors.Newf("match.conflict_gap_years must be >= 0, got %d", c.Match.ConflictGapYears)
	}

	// Registry files are optional, but a configured path must exist
	for key, path := range map[string]string{
		"registry.locations_file": c.Registry.LocationsFile,
		"registry.nicknames_file": c.Registry.NicknamesFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(err, "%s: %s", key, path)
		}
	}

	return nil
}

// Package match is the similarity engine: it normalizes informal name and
// place strings, scores pairs of them 0-100, and combines field-level scores
// into one overall confidence used for duplicate detection and search.
package match

import (
	"strings"

	"github.com/biograf/biograf/locations"
	"github.com/biograf/biograf/names"
)

// Default scoring policy. Weights are relative; scoring divides by the sum of
// the weights actually present, so they need not total exactly 1.0.
const (
	DefaultYearCutoff       = 5
	DefaultConflictGapYears = 40
)

// Weights assigns the relative importance of each record field.
type Weights struct {
	Name      float64 `mapstructure:"name_weight"`
	BirthYear float64 `mapstructure:"birth_year_weight"`
	Parents   float64 `mapstructure:"parents_weight"`
	Location  float64 `mapstructure:"location_weight"`
}

// DefaultWeights returns the standard field weighting: name dominates, the
// corroborating fields split the remainder evenly.
func DefaultWeights() Weights {
	return Weights{
		Name:      0.40,
		BirthYear: 0.20,
		Parents:   0.20,
		Location:  0.20,
	}
}

// Config assembles a Matcher. Zero values fall back to defaults, so
// match.New(match.Config{}) is a fully working engine.
type Config struct {
	Weights          Weights
	YearCutoff       int // birth-year difference beyond which the year score is 0
	ConflictGapYears int // difference at which conflicting years veto the match
	Locations        *locations.Registry
	Nicknames        *names.Registry
}

// Matcher scores record pairs. It is immutable after construction and safe
// for concurrent use.
type Matcher struct {
	weights     Weights
	yearCutoff  int
	conflictGap int
	locations   *locations.Registry
	nicknames   *names.Registry
}

// New constructs a Matcher, filling defaults for any zero-value Config field.
func New(cfg Config) *Matcher {
	w := cfg.Weights
	if w.Name == 0 && w.BirthYear == 0 && w.Parents == 0 && w.Location == 0 {
		w = DefaultWeights()
	}
	yearCutoff := cfg.YearCutoff
	if yearCutoff == 0 {
		yearCutoff = DefaultYearCutoff
	}
	conflictGap := cfg.ConflictGapYears
	if conflictGap == 0 {
		conflictGap = DefaultConflictGapYears
	}
	locs := cfg.Locations
	if locs == nil {
		locs = locations.NewRegistry()
	}
	nicks := cfg.Nicknames
	if nicks == nil {
		nicks = names.NewRegistry()
	}
	return &Matcher{
		weights:     w,
		yearCutoff:  yearCutoff,
		conflictGap: conflictGap,
		locations:   locs,
		nicknames:   nicks,
	}
}

// Weights returns the matcher's weight table.
func (m *Matcher) Weights() Weights {
	return m.weights
}

// NormalizeLocation canonicalizes a place string using the location registry.
func (m *Matcher) NormalizeLocation(raw string) string {
	return m.locations.Normalize(raw)
}

// MatchName scores two person names 0-100. The score is the best of a direct
// normalized comparison, a token-order-insensitive comparison, and each
// supplied alternate spelling compared against both names. An empty name on
// either side scores 0.
func (m *Matcher) MatchName(a, b string, alternates ...string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 100.0
	}

	best := ratio(na, nb)
	if s := tokenSortRatio(na, nb); s > best {
		best = s
	}

	for _, alt := range alternates {
		nalt := NormalizeName(alt)
		if nalt == "" {
			continue
		}
		if s := tokenSortRatio(na, nalt); s > best {
			best = s
		}
		if s := tokenSortRatio(nb, nalt); s > best {
			best = s
		}
	}

	return best
}

// MatchLocation scores two place strings 0-100 after registry normalization.
// Partial comparison tolerates different specificity levels: "Harvey, ND"
// matches "Harvey, Wells County, North Dakota".
func (m *Matcher) MatchLocation(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	la, lb := m.locations.Normalize(a), m.locations.Normalize(b)
	if la == "" || lb == "" {
		return 0.0
	}
	if la == lb {
		return 100.0
	}

	return partialRatio(la, lb)
}

// alternatesFor derives extra name forms for a candidate from the nickname
// registry: "Bill Johnson" also competes as "william johnson".
func (m *Matcher) alternatesFor(c Candidate) []string {
	if c.GivenNames == "" {
		return nil
	}
	canonical, changed := m.nicknames.CanonicalizeGiven(c.GivenNames)
	if !changed {
		return nil
	}
	if c.Surname != "" {
		canonical = canonical + " " + strings.ToLower(c.Surname)
	}
	return []string{canonical}
}

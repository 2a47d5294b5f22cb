// Package locations provides the place-name registry used to normalize
// location strings before comparison. The built-in table covers US state,
// Canadian province, and common country abbreviations; user extensions are
// merged from a TOML file.
package locations

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/biograf/biograf/errors"
)

// Registry maps location abbreviations to their expanded forms. Construct it
// with NewRegistry and pass it where needed; there is no package-global
// instance.
type Registry struct {
	abbreviations map[string]string
}

// registryFile is the on-disk TOML shape for user extensions.
type registryFile struct {
	Abbreviations map[string]string `toml:"abbreviations"`
}

// redundant trailing qualifiers stripped during normalization, longest first
var trailingQualifiers = []string{
	"united states of america",
	"united states",
	"usa",
}

// NewRegistry returns a registry seeded with the built-in abbreviation table.
func NewRegistry() *Registry {
	r := &Registry{abbreviations: make(map[string]string, len(builtinAbbreviations))}
	for abbr, full := range builtinAbbreviations {
		r.abbreviations[abbr] = full
	}
	return r
}

// LoadFile merges abbreviations from a TOML registry file:
//
//	[abbreviations]
//	nd = "north dakota"
//
// User entries override built-ins with the same key.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO(err, "failed to read location registry")
	}

	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "failed to parse location registry %s", path)
	}

	r.Merge(file.Abbreviations)
	return nil
}

// Merge adds the given abbreviation pairs, overriding existing entries.
// Keys and values are folded to lowercase.
func (r *Registry) Merge(extra map[string]string) {
	for abbr, full := range extra {
		abbr = strings.ToLower(strings.TrimSpace(abbr))
		full = strings.ToLower(strings.TrimSpace(full))
		if abbr == "" || full == "" {
			continue
		}
		r.abbreviations[abbr] = full
	}
}

// Expand returns the expansion for an abbreviation token, if one is known.
func (r *Registry) Expand(token string) (string, bool) {
	full, ok := r.abbreviations[strings.ToLower(token)]
	return full, ok
}

// Len reports the number of known abbreviations.
func (r *Registry) Len() int {
	return len(r.abbreviations)
}

// Abbreviations returns a copy of the table for display.
func (r *Registry) Abbreviations() map[string]string {
	out := make(map[string]string, len(r.abbreviations))
	for k, v := range r.abbreviations {
		out[k] = v
	}
	return out
}

// Normalize canonicalizes a location string for comparison: lowercases,
// collapses whitespace, drops commas and periods, strips redundant trailing
// country qualifiers, and expands a trailing state/province/country
// abbreviation so "Harvey, ND" and "Harvey, North Dakota" compare equal.
// Only the final token is expanded: interior tokens like the "La" of
// "La Crosse" must not turn into state names.
func (r *Registry) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, ",", " ")
	normalized = strings.ReplaceAll(normalized, ".", "")
	normalized = strings.Join(strings.Fields(normalized), " ")

	// Strip trailing qualifiers only when something precedes them; a bare
	// "USA" still canonicalizes through the abbreviation table below.
	for stripped := true; stripped; {
		stripped = false
		for _, q := range trailingQualifiers {
			if strings.HasSuffix(normalized, " "+q) {
				normalized = strings.TrimSpace(strings.TrimSuffix(normalized, " "+q))
				stripped = true
			}
		}
	}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return ""
	}
	if full, ok := r.Expand(tokens[len(tokens)-1]); ok {
		tokens[len(tokens)-1] = full
	}

	return strings.Join(tokens, " ")
}

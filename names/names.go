// Package names provides the nickname registry used to derive alternate
// spellings for name matching: "Bill Johnson" and "William Johnson" should
// score as the same person. The built-in table covers common English and
// Germanic forms; user extensions are merged from a TOML file.
package names

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/biograf/biograf/errors"
)

// Registry maps nicknames to canonical given names. Construct with
// NewRegistry and pass it where needed.
type Registry struct {
	nicknames map[string]string
}

type registryFile struct {
	Nicknames map[string]string `toml:"nicknames"`
}

// NewRegistry returns a registry seeded with the built-in nickname table.
func NewRegistry() *Registry {
	r := &Registry{nicknames: make(map[string]string, len(builtinNicknames))}
	for nick, canonical := range builtinNicknames {
		r.nicknames[nick] = canonical
	}
	return r
}

// LoadFile merges nicknames from a TOML registry file:
//
//	[nicknames]
//	bill = "william"
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO(err, "failed to read nickname registry")
	}

	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "failed to parse nickname registry %s", path)
	}

	r.Merge(file.Nicknames)
	return nil
}

// Merge adds nickname pairs, overriding existing entries. Keys and values are
// folded to lowercase.
func (r *Registry) Merge(extra map[string]string) {
	for nick, canonical := range extra {
		nick = strings.ToLower(strings.TrimSpace(nick))
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if nick == "" || canonical == "" {
			continue
		}
		r.nicknames[nick] = canonical
	}
}

// Canonical returns the canonical form of a single given-name token, if the
// token is a known nickname.
func (r *Registry) Canonical(given string) (string, bool) {
	canonical, ok := r.nicknames[strings.ToLower(strings.TrimSpace(given))]
	return canonical, ok
}

// CanonicalizeGiven maps each token of a given-names string through the
// nickname table. Returns the canonicalized string and whether anything
// changed.
func (r *Registry) CanonicalizeGiven(given string) (string, bool) {
	tokens := strings.Fields(strings.ToLower(given))
	changed := false
	for i, tok := range tokens {
		if canonical, ok := r.nicknames[tok]; ok {
			tokens[i] = canonical
			changed = true
		}
	}
	return strings.Join(tokens, " "), changed
}

// Len reports the number of known nicknames.
func (r *Registry) Len() int {
	return len(r.nicknames)
}

// Nicknames returns a copy of the table for display.
func (r *Registry) Nicknames() map[string]string {
	out := make(map[string]string, len(r.nicknames))
	for k, v := range r.nicknames {
		out[k] = v
	}
	return out
}

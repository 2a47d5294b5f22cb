package persons

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/biograf/biograf/docio"
	"github.com/biograf/biograf/errors"
)

// GetPath resolves a dotted path like "vital_events.birth.date" against the
// document, returning nil when any segment is absent.
func GetPath(doc *yaml.Node, path string) *yaml.Node {
	current := doc
	for _, key := range strings.Split(path, ".") {
		current = docio.MapGet(current, key)
		if current == nil {
			return nil
		}
	}
	return current
}

// SetPath assigns value at a dotted path, creating intermediate mappings as
// needed. A non-mapping intermediate is replaced by a fresh mapping, the
// same way a caller-supplied patch would expect.
func SetPath(doc *yaml.Node, path string, value any) error {
	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return errors.Newf("invalid field path %q", path)
		}
	}

	current := doc
	for _, k := range keys[:len(keys)-1] {
		current = docio.EnsureMap(current, k)
	}
	docio.MapSet(current, keys[len(keys)-1], docio.ScalarFrom(value))
	return nil
}

// ApplyPatch sets every dotted path in the patch, in sorted path order so
// repeated applications produce identical node trees. The person identifier
// is immutable and may not appear in a patch.
func ApplyPatch(doc *yaml.Node, patch map[string]any) error {
	paths := make([]string, 0, len(patch))
	for p := range patch {
		if p == "person_id" {
			return errors.New("person_id is immutable and cannot be patched")
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := SetPath(doc, p, patch[p]); err != nil {
			return err
		}
	}
	return nil
}

// DeriveComputedFields recomputes values that must never be hand-edited
// independently. full_name is always given_names + " " + surname.
func DeriveComputedFields(doc *yaml.Node) {
	name := docio.MapGet(doc, "name")
	if name == nil {
		return
	}
	given, _ := docio.NodeString(docio.MapGet(name, "given_names"))
	surname, _ := docio.NodeString(docio.MapGet(name, "surname"))
	if given == "" && surname == "" {
		return
	}
	docio.MapSet(name, "full_name", docio.ScalarString(fullName(given, surname)))
}

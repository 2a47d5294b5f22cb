// Package docio owns the on-disk byte format of person documents: YAML
// parsing into an order-preserving node tree, atomic writes, timestamped
// backups, and content checksums. Callers above this package never touch
// YAML syntax or temp-file handling themselves.
package docio

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/biograf/biograf/errors"
)

// Load reads and parses the document at path. Unparseable content is
// reported as a corrupt-document error; the file is never partially parsed.
func Load(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO(err, "read document")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.WithDetailf(err, "file: %s", path)
	}
	return doc, nil
}

// Parse decodes YAML bytes into the mapping node at the document root.
// The node tree preserves key order, so a parse/serialize round trip is
// byte-stable for documents this package wrote.
func Parse(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.WrapCorrupt(err, "parse document")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.WrapCorrupt(errors.New("empty document"), "parse document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.WrapCorrupt(errors.New("document root is not a mapping"), "parse document")
	}
	return doc, nil
}

// Serialize renders a document node to YAML bytes with stable two-space
// indentation. Serialization is deterministic for a given node tree, which
// is what makes checksum comparison meaningful.
func Serialize(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return nil, errors.Wrap(err, "serialize document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "serialize document")
	}
	return buf.Bytes(), nil
}

// Save serializes doc and atomically writes it to path.
func Save(doc *yaml.Node, path string) error {
	data, err := Serialize(doc)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

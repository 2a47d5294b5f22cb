// Package persons implements the record store: create with duplicate
// detection, read, nested-path update, archive-aware delete, restore from
// backup, and fuzzy multi-criteria search over a directory of YAML person
// documents. Every operation reads fresh from disk and persists atomically;
// no state is cached across calls.
package persons

import (
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/biograf/biograf/docio"
	"github.com/biograf/biograf/match"
)

// Person is the typed projection of one person document, extracted once per
// operation for matching and display. Doc retains the full node tree so
// writes preserve fields the projection does not model.
type Person struct {
	PersonID      string   `json:"person_id"`
	SchemaVersion string   `json:"schema_version,omitempty"`
	FullName      string   `json:"full_name"`
	GivenNames    string   `json:"given_names,omitempty"`
	Surname       string   `json:"surname,omitempty"`
	Alternates    []string `json:"alternate_spellings,omitempty"`
	Nicknames     []string `json:"nicknames,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	BirthYear     int      `json:"birth_year,omitempty"`
	BirthDate     string   `json:"birth_date,omitempty"`
	BirthPlace    string   `json:"birth_place,omitempty"`
	FatherName    string   `json:"father_name,omitempty"`
	MotherName    string   `json:"mother_name,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Tags          []string `json:"tags,omitempty"`

	Path string     `json:"path,omitempty"`
	Doc  *yaml.Node `json:"-"`
}

// FromDocument projects a parsed document into a Person.
func FromDocument(doc *yaml.Node, path string) *Person {
	p := &Person{Path: path, Doc: doc}

	p.PersonID, _ = docio.NodeString(docio.MapGet(doc, "person_id"))
	p.SchemaVersion, _ = docio.NodeString(docio.MapGet(doc, "schema_version"))
	p.Gender, _ = docio.NodeString(docio.MapGet(doc, "gender"))
	p.Notes, _ = docio.NodeString(docio.MapGet(doc, "notes"))
	p.Sources = docio.NodeStrings(docio.MapGet(doc, "sources"))
	p.Tags = docio.NodeStrings(docio.MapGet(doc, "tags"))

	if name := docio.MapGet(doc, "name"); name != nil {
		p.FullName, _ = docio.NodeString(docio.MapGet(name, "full_name"))
		p.GivenNames, _ = docio.NodeString(docio.MapGet(name, "given_names"))
		p.Surname, _ = docio.NodeString(docio.MapGet(name, "surname"))
		p.Alternates = docio.NodeStrings(docio.MapGet(name, "alternate_spellings"))
		p.Nicknames = docio.NodeStrings(docio.MapGet(name, "nicknames"))
	}

	if birth := docio.MapGet(docio.MapGet(doc, "vital_events"), "birth"); birth != nil {
		p.BirthYear, _ = docio.NodeInt(docio.MapGet(birth, "year"))
		p.BirthDate, _ = docio.NodeString(docio.MapGet(birth, "date"))
		p.BirthPlace, _ = docio.NodeString(docio.MapGet(birth, "place"))
	}

	if family := docio.MapGet(doc, "family"); family != nil {
		p.FatherName, _ = docio.NodeString(docio.MapGet(family, "father_name"))
		p.MotherName, _ = docio.NodeString(docio.MapGet(family, "mother_name"))
	}

	return p
}

// Candidate converts the person into the neutral shape the similarity
// engine scores. Alternate spellings and recorded nicknames both count as
// known aliases.
func (p *Person) Candidate() match.Candidate {
	return match.Candidate{
		GivenNames: p.GivenNames,
		Surname:    p.Surname,
		FullName:   p.FullName,
		Alternates: append(append([]string{}, p.Alternates...), p.Nicknames...),
		BirthYear:  p.BirthYear,
		BirthPlace: p.BirthPlace,
		FatherName: p.FatherName,
		MotherName: p.MotherName,
	}
}

// Fields carries the caller-supplied values for a new person record. Only
// GivenNames and Surname are required.
type Fields struct {
	GivenNames string
	Surname    string
	Gender     string
	BirthYear  int
	BirthDate  string
	BirthPlace string
	FatherName string
	MotherName string
	Alternates []string
	Sources    []string
	Notes      string
	Tags       []string
}

// newDocument builds the node tree for a fresh person record. Key order is
// fixed so serialized documents stay diffable and checksum-stable.
func newDocument(personID string, f Fields) *yaml.Node {
	doc := docio.NewMapping()
	docio.MapSet(doc, "schema_version", docio.ScalarString(CurrentSchemaVersion))
	docio.MapSet(doc, "person_id", docio.ScalarString(personID))

	name := docio.NewMapping()
	docio.MapSet(name, "full_name", docio.ScalarString(fullName(f.GivenNames, f.Surname)))
	docio.MapSet(name, "given_names", docio.ScalarString(f.GivenNames))
	docio.MapSet(name, "surname", docio.ScalarString(f.Surname))
	if len(f.Alternates) > 0 {
		docio.MapSet(name, "alternate_spellings", docio.SequenceStrings(f.Alternates))
	}
	docio.MapSet(doc, "name", name)

	if f.Gender != "" {
		docio.MapSet(doc, "gender", docio.ScalarString(f.Gender))
	}

	if f.BirthYear != 0 || f.BirthDate != "" || f.BirthPlace != "" {
		birth := docio.NewMapping()
		if f.BirthDate != "" {
			docio.MapSet(birth, "date", docio.ScalarString(f.BirthDate))
		}
		if f.BirthYear != 0 {
			docio.MapSet(birth, "year", docio.ScalarInt(f.BirthYear))
		}
		if f.BirthPlace != "" {
			docio.MapSet(birth, "place", docio.ScalarString(f.BirthPlace))
		}
		events := docio.NewMapping()
		docio.MapSet(events, "birth", birth)
		docio.MapSet(doc, "vital_events", events)
	}

	if f.FatherName != "" || f.MotherName != "" {
		family := docio.NewMapping()
		if f.FatherName != "" {
			docio.MapSet(family, "father_name", docio.ScalarString(f.FatherName))
		}
		if f.MotherName != "" {
			docio.MapSet(family, "mother_name", docio.ScalarString(f.MotherName))
		}
		docio.MapSet(doc, "family", family)
	}

	if len(f.Sources) > 0 {
		docio.MapSet(doc, "sources", docio.SequenceStrings(f.Sources))
	}
	if f.Notes != "" {
		docio.MapSet(doc, "notes", docio.ScalarString(f.Notes))
	}
	if len(f.Tags) > 0 {
		docio.MapSet(doc, "tags", docio.SequenceStrings(f.Tags))
	}

	return doc
}

func fullName(givenNames, surname string) string {
	return strings.TrimSpace(givenNames + " " + surname)
}

// SanitizeFilename replaces characters that are unsafe in filenames and
// joins whitespace runs with underscores.
func SanitizeFilename(name string) string {
	const invalid = `<>:"/\|?*`
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) {
			return '_'
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), "_")
}

// documentFilename builds the live filename for a record. The name embeds
// the person ID, but lookups never rely on it; the embedded person_id field
// is authoritative.
func documentFilename(personID, givenNames, surname string) string {
	safeGiven := SanitizeFilename(givenNames)
	safeSurname := SanitizeFilename(surname)
	if safeGiven == "" {
		safeGiven = "Unknown"
	}
	if safeSurname == "" {
		safeSurname = "Unknown"
	}
	return personID + "_" + safeGiven + "_" + safeSurname + ".yaml"
}

// SearchResult pairs a matched person with the confidence of the match.
// Confidence is computed per query and never persisted.
type SearchResult struct {
	Person     *Person `json:"person"`
	Confidence int     `json:"confidence"`
}

// BackupEntry describes one backup file for a person, newest first when
// listed. Entries are append-only; the store never rewrites a backup.
type BackupEntry struct {
	PersonID  string    `json:"person_id"`
	Fragment  string    `json:"fragment"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// Filename returns the backup's base filename.
func (b BackupEntry) Filename() string {
	return filepath.Base(b.Path)
}

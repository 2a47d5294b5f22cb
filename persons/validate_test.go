package persons

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/biograf/biograf/docio"
)

func parseDoc(t *testing.T, src string) *yaml.Node {
	t.Helper()
	doc, err := docio.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantSeverity Severity
		wantField    string
		wantFixable  bool
		wantContains string
		wantClean    bool
	}{
		{
			name: "complete document",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
  given_names: Johann
  surname: Johnson
gender: Male
vital_events:
  birth:
    date: "1825-03-01"
    year: 1825
sources:
  - census_1850.pdf
`,
			wantClean: true,
		},
		{
			name: "missing person_id",
			src: `schema_version: "1.0.0"
name:
  full_name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityError,
			wantField:    "person_id",
		},
		{
			name: "missing name",
			src: `schema_version: "1.0.0"
person_id: I382000000001
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityError,
			wantField:    "name",
		},
		{
			name: "name is not a mapping",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityError,
			wantField:    "name",
			wantContains: "mapping",
		},
		{
			name: "missing full_name",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  given_names: Johann
  surname: Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityError,
			wantField:    "name.full_name",
		},
		{
			name: "full_name out of sync",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Someone Else
  given_names: Johann
  surname: Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "name.full_name",
			wantFixable:  true,
		},
		{
			name: "missing schema_version",
			src: `person_id: I382000000001
name:
  full_name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityInfo,
			wantField:    "schema_version",
			wantFixable:  true,
		},
		{
			name: "legacy schema_version",
			src: `schema_version: "1.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityInfo,
			wantField:    "schema_version",
			wantFixable:  true,
			wantContains: "legacy",
		},
		{
			name: "unsupported schema_version",
			src: `schema_version: "2.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "schema_version",
			wantContains: "unsupported",
		},
		{
			name: "unparseable schema_version",
			src: `schema_version: not-a-version
person_id: I382000000001
name:
  full_name: Johann Johnson
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "schema_version",
			wantContains: "unrecognized",
		},
		{
			name: "unexpected gender value",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
gender: M
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "gender",
		},
		{
			name: "implausible birth year",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
vital_events:
  birth:
    year: 182
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "vital_events.birth.year",
			wantContains: "implausible",
		},
		{
			name: "malformed birth date",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
vital_events:
  birth:
    date: "03/01/1825"
sources:
  - census_1850.pdf
`,
			wantSeverity: SeverityWarning,
			wantField:    "vital_events.birth.date",
		},
		{
			name: "no sources documented",
			src: `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
`,
			wantSeverity: SeverityInfo,
			wantField:    "sources",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issues := ValidateDocument(parseDoc(t, tc.src))
			if tc.wantClean {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, tc.wantSeverity, issues[0].Severity)
			assert.Equal(t, tc.wantField, issues[0].Field)
			assert.Equal(t, tc.wantFixable, issues[0].Fixable)
			if tc.wantContains != "" {
				assert.Contains(t, issues[0].Message, tc.wantContains)
			}
		})
	}
}

func TestIssueString(t *testing.T) {
	i := Issue{Severity: SeverityWarning, Field: "name.full_name", Message: "out of sync", Fixable: true}
	assert.Equal(t, "WARNING: out of sync (field: name.full_name) [FIXABLE]", i.String())

	i = Issue{Severity: SeverityError, Message: "invalid YAML syntax"}
	assert.Equal(t, "ERROR: invalid YAML syntax", i.String())
}

func TestValidateFile(t *testing.T) {
	s := newTestStore(t)
	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	assert.Empty(t, ValidateFile(p.Path), "store-created documents must validate clean")

	bad := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unclosed"), 0o644))
	issues := ValidateFile(bad)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "invalid YAML syntax")
}

func TestFixRepairsLegacyDocument(t *testing.T) {
	s := newTestStore(t)

	// Hand-built file: no schema_version, stale full_name.
	src := `person_id: I382000000042
name:
  full_name: Wrong Name
  given_names: Sebastian
  surname: Brandt
sources:
  - church_register.pdf
`
	path := filepath.Join(s.PersonsDir(), "I382000000042_Sebastian_Brandt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	issues, err := s.Validate("I382000000042")
	require.NoError(t, err)
	assert.True(t, HasFixable(issues))
	assert.False(t, HasErrors(issues))

	fixed, err := s.Fix("I382000000042")
	require.NoError(t, err)
	assert.True(t, fixed)

	issues, err = s.Validate("I382000000042")
	require.NoError(t, err)
	assert.Empty(t, issues, "all fixable issues repaired")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "schema_version:"),
		"schema_version is inserted as the first key")
	assert.Contains(t, string(data), "full_name: Sebastian Brandt")

	backups, err := s.ListBackups("I382000000042")
	require.NoError(t, err)
	assert.Len(t, backups, 1, "fix backs up the original first")
}

func TestFixWithNothingToRepair(t *testing.T) {
	s := newTestStore(t)
	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	fixed, err := s.Fix(p.PersonID)
	require.NoError(t, err)
	assert.False(t, fixed)

	backups, err := s.ListBackups(p.PersonID)
	require.NoError(t, err)
	assert.Empty(t, backups, "no repair means no write and no backup")
}

func TestValidateAll(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	legacy := filepath.Join(s.PersonsDir(), "I382000000077_Old_Record.yaml")
	require.NoError(t, os.WriteFile(legacy, []byte("person_id: I382000000077\nname:\n  full_name: Old Record\n"), 0o644))
	corrupt := filepath.Join(s.PersonsDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(corrupt, []byte("{{{"), 0o644))

	results, err := s.ValidateAll(0, false)
	require.NoError(t, err)
	assert.Len(t, results, 3, "every file is reported, corrupt ones included")

	results, err = s.ValidateAll(0, true)
	require.NoError(t, err)
	assert.Len(t, results, 2, "skipValid drops the clean record")
	assert.NotEmpty(t, results[legacy])
	assert.NotEmpty(t, results[corrupt])

	results, err = s.ValidateAll(1, false)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSummarize(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityError, Message: "a"},
		{Severity: SeverityWarning, Message: "b", Fixable: true},
		{Severity: SeverityInfo, Message: "c", Fixable: true},
	}
	counts := Summarize(issues)
	assert.Equal(t, 1, counts["ERROR"])
	assert.Equal(t, 1, counts["WARNING"])
	assert.Equal(t, 1, counts["INFO"])
	assert.Equal(t, 2, counts["fixable"])
}

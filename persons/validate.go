package persons

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/biograf/biograf/docio"
)

// CurrentSchemaVersion is written into every new document. Older documents
// carrying "1.0" are semantically identical and flagged as fixable.
const CurrentSchemaVersion = "1.0.0"

var currentSchema = semver.MustParse(CurrentSchemaVersion)

// knownGenders is the vocabulary the matcher's gender filter understands.
var knownGenders = map[string]bool{"male": true, "female": true, "unknown": true}

// Severity classifies a validation issue. ERROR blocks writes; WARNING and
// INFO are reported only.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Issue is one structural problem found in a person document.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Fixable  bool     `json:"fixable"`
}

func (i Issue) String() string {
	s := fmt.Sprintf("%s: %s", i.Severity, i.Message)
	if i.Field != "" {
		s += fmt.Sprintf(" (field: %s)", i.Field)
	}
	if i.Fixable {
		s += " [FIXABLE]"
	}
	return s
}

// ValidateDocument reports structural issues in a person document. It never
// mutates the document; auto-repair is a separate, explicit store action.
func ValidateDocument(doc *yaml.Node) []Issue {
	var issues []Issue

	issues = append(issues, validateSchemaVersion(doc)...)

	if id, ok := docio.NodeString(docio.MapGet(doc, "person_id")); !ok || id == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "person_id",
			Message:  "missing required field: person_id",
		})
	}

	name := docio.MapGet(doc, "name")
	switch {
	case name == nil:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "name",
			Message:  "missing required field: name",
		})
	case name.Kind != yaml.MappingNode:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "name",
			Message:  "name must be a mapping",
		})
	default:
		full, ok := docio.NodeString(docio.MapGet(name, "full_name"))
		if !ok || full == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Field:    "name.full_name",
				Message:  "missing required field: name.full_name",
			})
			break
		}
		given, _ := docio.NodeString(docio.MapGet(name, "given_names"))
		surname, _ := docio.NodeString(docio.MapGet(name, "surname"))
		if (given != "" || surname != "") && full != fullName(given, surname) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "name.full_name",
				Message:  fmt.Sprintf("full_name %q does not match given_names + surname %q", full, fullName(given, surname)),
				Fixable:  true,
			})
		}
	}

	issues = append(issues, validateBiography(doc)...)

	return issues
}

// validateBiography covers the advisory checks: vocabulary and plausibility
// problems that merit a report but never block a write.
func validateBiography(doc *yaml.Node) []Issue {
	var issues []Issue

	if gender, ok := docio.NodeString(docio.MapGet(doc, "gender")); ok && gender != "" {
		if !knownGenders[strings.ToLower(gender)] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "gender",
				Message:  fmt.Sprintf("unexpected gender %q, expected Male, Female or Unknown", gender),
			})
		}
	}

	if year, ok := docio.NodeInt(GetPath(doc, "vital_events.birth.year")); ok {
		if year < 1000 || year > time.Now().Year()+1 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "vital_events.birth.year",
				Message:  fmt.Sprintf("implausible birth year %d", year),
			})
		}
	}

	if date, ok := docio.NodeString(GetPath(doc, "vital_events.birth.date")); ok && date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "vital_events.birth.date",
				Message:  fmt.Sprintf("birth date %q is not a valid YYYY-MM-DD date", date),
			})
		}
	}

	if sources := docio.NodeStrings(docio.MapGet(doc, "sources")); len(sources) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Field:    "sources",
			Message:  "no sources documented",
		})
	}

	return issues
}

func validateSchemaVersion(doc *yaml.Node) []Issue {
	raw, ok := docio.NodeString(docio.MapGet(doc, "schema_version"))
	if !ok || raw == "" {
		return []Issue{{
			Severity: SeverityInfo,
			Field:    "schema_version",
			Message:  "missing schema_version",
			Fixable:  true,
		}}
	}

	ver, err := semver.NewVersion(raw)
	if err != nil {
		return []Issue{{
			Severity: SeverityWarning,
			Field:    "schema_version",
			Message:  fmt.Sprintf("unrecognized schema_version: %s", raw),
		}}
	}
	if !ver.Equal(currentSchema) {
		return []Issue{{
			Severity: SeverityWarning,
			Field:    "schema_version",
			Message:  fmt.Sprintf("unsupported schema_version %s, expected %s", raw, CurrentSchemaVersion),
		}}
	}
	if raw != CurrentSchemaVersion {
		return []Issue{{
			Severity: SeverityInfo,
			Field:    "schema_version",
			Message:  fmt.Sprintf("legacy schema_version format (%s), should be %s", raw, CurrentSchemaVersion),
			Fixable:  true,
		}}
	}
	return nil
}

// HasErrors reports whether any issue is ERROR severity. The store blocks
// create and update on these.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasFixable reports whether any issue can be repaired automatically.
func HasFixable(issues []Issue) bool {
	for _, i := range issues {
		if i.Fixable {
			return true
		}
	}
	return false
}

// Summarize counts issues by severity, plus how many are fixable.
func Summarize(issues []Issue) map[string]int {
	counts := map[string]int{
		string(SeverityError):   0,
		string(SeverityWarning): 0,
		string(SeverityInfo):    0,
		"fixable":               0,
	}
	for _, i := range issues {
		counts[string(i.Severity)]++
		if i.Fixable {
			counts["fixable"]++
		}
	}
	return counts
}

// applyFixes repairs every fixable issue in place: schema_version is set to
// the current version and full_name is re-derived. Returns true when the
// document changed.
func applyFixes(doc *yaml.Node, issues []Issue) bool {
	changed := false
	for _, issue := range issues {
		if !issue.Fixable {
			continue
		}
		switch issue.Field {
		case "schema_version":
			docio.MapSetFront(doc, "schema_version", docio.ScalarString(CurrentSchemaVersion))
			changed = true
		case "name.full_name":
			DeriveComputedFields(doc)
			changed = true
		}
	}
	return changed
}

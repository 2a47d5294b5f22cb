package display

import (
	"github.com/pterm/pterm"

	"github.com/biograf/biograf/match"
	"github.com/biograf/biograf/persons"
)

// RenderPerson prints a full person record as colored terminal text.
func RenderPerson(p *persons.Person) {
	pterm.Info.Printf("%s (%s)\n", p.FullName, p.PersonID)
	if p.GivenNames != "" || p.Surname != "" {
		pterm.Printf("  Given names: %s\n", orUnknown(p.GivenNames))
		pterm.Printf("  Surname:     %s\n", orUnknown(p.Surname))
	}
	for _, alt := range p.Alternates {
		pterm.Printf("  Also spelled: %s\n", alt)
	}
	for _, nick := range p.Nicknames {
		pterm.Printf("  Nickname:     %s\n", nick)
	}
	if p.Gender != "" {
		pterm.Printf("  Gender: %s\n", p.Gender)
	}
	if p.BirthYear != 0 || p.BirthDate != "" || p.BirthPlace != "" {
		pterm.Printf("  Born: %s\n", formatBirth(p))
	}
	if p.FatherName != "" {
		pterm.Printf("  Father: %s\n", p.FatherName)
	}
	if p.MotherName != "" {
		pterm.Printf("  Mother: %s\n", p.MotherName)
	}
	for _, src := range p.Sources {
		pterm.Printf("  Source: %s\n", src)
	}
	if p.Notes != "" {
		pterm.Printf("  Notes: %s\n", p.Notes)
	}
	if p.Path != "" {
		pterm.Printf("  File: %s\n", p.Path)
	}
}

func formatBirth(p *persons.Person) string {
	out := ""
	switch {
	case p.BirthDate != "":
		out = p.BirthDate
	case p.BirthYear != 0:
		out = pterm.Sprintf("%d", p.BirthYear)
	}
	if p.BirthPlace != "" {
		if out != "" {
			out += ", "
		}
		out += p.BirthPlace
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}

// RenderSearchResults prints matches in descending confidence order, one
// line per person plus birth details when known.
func RenderSearchResults(results []persons.SearchResult) {
	if len(results) == 0 {
		pterm.Warning.Println("No matching persons found")
		return
	}
	pterm.Info.Printf("Found %d matching person(s):\n", len(results))
	for _, r := range results {
		pterm.Printf("  %3d%%  %s (%s)\n", r.Confidence, r.Person.FullName, r.Person.PersonID)
		if born := formatBirth(r.Person); born != "" {
			pterm.Printf("        born %s\n", born)
		}
	}
}

// RenderBackups prints backup history, newest first.
func RenderBackups(personID string, entries []persons.BackupEntry) {
	if len(entries) == 0 {
		pterm.Warning.Printf("No backups for %s\n", personID)
		return
	}
	pterm.Info.Printf("%d backup(s) for %s:\n", len(entries), personID)
	for _, e := range entries {
		pterm.Printf("  %s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Filename())
	}
}

// RenderIssues prints validation findings for one document. The severity
// is carried by the printer prefix, so messages stay unprefixed.
func RenderIssues(path string, issues []persons.Issue) {
	if len(issues) == 0 {
		pterm.Success.Printf("%s: OK\n", path)
		return
	}
	pterm.Info.Printf("%s:\n", path)
	for _, issue := range issues {
		line := issue.Message
		if issue.Field != "" {
			line += " (field: " + issue.Field + ")"
		}
		if issue.Fixable {
			line += " [FIXABLE]"
		}
		switch issue.Severity {
		case persons.SeverityError:
			pterm.Error.Printf("  %s\n", line)
		case persons.SeverityWarning:
			pterm.Warning.Printf("  %s\n", line)
		default:
			pterm.Info.Printf("  %s\n", line)
		}
	}
}

// RenderValidationSummary prints severity totals across a validation run.
func RenderValidationSummary(files int, counts map[string]int) {
	pterm.Println()
	pterm.Info.Printf("Checked %d document(s)\n", files)
	pterm.Printf("  Errors:   %d\n", counts[string(persons.SeverityError)])
	pterm.Printf("  Warnings: %d\n", counts[string(persons.SeverityWarning)])
	pterm.Printf("  Info:     %d\n", counts[string(persons.SeverityInfo)])
	if counts["fixable"] > 0 {
		pterm.Printf("  Fixable:  %d (run with --fix)\n", counts["fixable"])
	}
}

// RenderStats prints store document counts.
func RenderStats(st persons.Stats) {
	pterm.Info.Printf("Store contents:\n")
	pterm.Printf("  Live persons:      %d\n", st.Live)
	pterm.Printf("  Archived persons:  %d\n", st.Archived)
	pterm.Printf("  Backups:           %d\n", st.Backups)
}

// RenderBreakdown prints the per-field scores behind a match confidence.
// Fields unknown on either side render as "not compared".
func RenderBreakdown(b match.Breakdown) {
	pterm.Info.Printf("Match confidence: %d%%\n", b.Overall)
	pterm.Printf("  Name:       %.1f\n", b.NameScore)
	pterm.Printf("  Birth year: %s\n", formatScore(b.BirthYearScore))
	pterm.Printf("  Parents:    %s\n", formatScore(b.ParentScore))
	pterm.Printf("  Location:   %s\n", formatScore(b.LocationScore))
	if b.YearConflict {
		pterm.Warning.Println("Birth years conflict; confidence was capped")
	}
}

func formatScore(s *float64) string {
	if s == nil {
		return "not compared"
	}
	return pterm.Sprintf("%.1f", *s)
}

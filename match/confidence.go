package match

import (
	"math"
	"strings"

	"github.com/biograf/biograf/internal/util"
)

// conflictCap is the ceiling forced onto the overall confidence when both
// birth years are present but decades apart: two perfect name matches are not
// the same person if one was born 40 years before the other.
const conflictCap = 10.0

// Candidate is the match-relevant projection of a person record. Zero values
// mean "unknown": unknown fields drop out of scoring instead of penalizing.
type Candidate struct {
	GivenNames string
	Surname    string
	FullName   string // derived from GivenNames + Surname when empty
	Alternates []string
	BirthYear  int // 0 = unknown
	BirthPlace string
	FatherName string
	MotherName string
}

func (c Candidate) fullName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return strings.TrimSpace(c.GivenNames + " " + c.Surname)
}

// Breakdown reports the per-field scores behind an overall confidence.
// Nil scores mark fields that were unknown on at least one side and therefore
// did not contribute.
type Breakdown struct {
	NameScore      float64  `json:"name_score"`
	BirthYearScore *float64 `json:"birth_year_score"`
	ParentScore    *float64 `json:"parent_score"`
	LocationScore  *float64 `json:"location_score"`
	YearConflict   bool     `json:"year_conflict"`
	Overall        int      `json:"overall"`
}

// Confidence computes the overall 0-100 match confidence between two
// candidates: the weighted average of the field scores that are present on
// both sides, with the year-conflict veto applied on top.
func (m *Matcher) Confidence(a, b Candidate) int {
	return m.Breakdown(a, b).Overall
}

// Breakdown computes Confidence plus the per-field scores for inspection.
// No side effects.
func (m *Matcher) Breakdown(a, b Candidate) Breakdown {
	var bd Breakdown
	var total, weightSum float64

	nameA, nameB := a.fullName(), b.fullName()
	if nameA != "" && nameB != "" {
		alternates := make([]string, 0, len(a.Alternates)+len(b.Alternates)+2)
		alternates = append(alternates, a.Alternates...)
		alternates = append(alternates, b.Alternates...)
		alternates = append(alternates, m.alternatesFor(a)...)
		alternates = append(alternates, m.alternatesFor(b)...)

		bd.NameScore = m.MatchName(nameA, nameB, alternates...)
		total += bd.NameScore * m.weights.Name
		weightSum += m.weights.Name
	}

	if a.BirthYear != 0 && b.BirthYear != 0 {
		diff := util.AbsInt(a.BirthYear - b.BirthYear)
		score := m.yearScore(diff)
		bd.BirthYearScore = util.Ptr(score)
		bd.YearConflict = diff >= m.conflictGap
		total += score * m.weights.BirthYear
		weightSum += m.weights.BirthYear
	}

	if score, ok := m.parentScore(a, b); ok {
		bd.ParentScore = util.Ptr(score)
		total += score * m.weights.Parents
		weightSum += m.weights.Parents
	}

	if a.BirthPlace != "" && b.BirthPlace != "" {
		score := m.MatchLocation(a.BirthPlace, b.BirthPlace)
		bd.LocationScore = util.Ptr(score)
		total += score * m.weights.Location
		weightSum += m.weights.Location
	}

	overall := 0.0
	if weightSum > 0 {
		overall = total / weightSum
	}
	if bd.YearConflict && overall > conflictCap {
		overall = conflictCap
	}

	bd.Overall = int(math.Round(util.ClampFloat64(overall, 0, 100)))
	return bd
}

// yearScore maps an absolute birth-year difference onto the decay curve:
// exact 100, within two years 90, within the cutoff 70, beyond it 0.
func (m *Matcher) yearScore(diff int) float64 {
	switch {
	case diff == 0:
		return 100.0
	case diff <= 2:
		return 90.0
	case diff <= m.yearCutoff:
		return 70.0
	default:
		return 0.0
	}
}

// parentScore averages the father and mother name matches across the pairs
// known on both sides. Reports ok=false when no pair is complete, so the
// field drops out of the weighted average.
func (m *Matcher) parentScore(a, b Candidate) (float64, bool) {
	var scores []float64
	if a.FatherName != "" && b.FatherName != "" {
		scores = append(scores, m.MatchName(a.FatherName, b.FatherName))
	}
	if a.MotherName != "" && b.MotherName != "" {
		scores = append(scores, m.MatchName(a.MotherName, b.MotherName))
	}
	if len(scores) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}

package persons

import (
	"iter"
	"sort"
	"strings"

	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/match"
)

// Criteria is the subset of fields a search matches on. Empty fields are
// not matched; a zero Criteria matches everything in exact mode and nothing
// in fuzzy mode (no field overlap means zero confidence).
type Criteria struct {
	PersonID   string
	GivenNames string
	Surname    string
	BirthYear  int
	Location   string
	Gender     string
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Search returns a lazy sequence of matches ordered by descending
// confidence, ties broken by ascending person ID. The scan runs when the
// sequence is first pulled; iterating again re-reads the store, so a
// restarted sequence observes fresh state. Early exit from the range loop
// is safe.
//
// With fuzzy=false every supplied criterion must match exactly after
// normalization and all results carry confidence 100. With fuzzy=true each
// record is scored on the supplied fields only, and results at or above
// threshold are returned.
func (s *Store) Search(criteria Criteria, fuzzy bool, threshold int) iter.Seq[SearchResult] {
	if threshold < 0 {
		threshold = 0
	}
	return func(yield func(SearchResult) bool) {
		for _, r := range s.collectMatches(criteria, fuzzy, threshold) {
			if !yield(r) {
				return
			}
		}
	}
}

// SearchAll drains the search sequence into a slice.
func (s *Store) SearchAll(criteria Criteria, fuzzy bool, threshold int) []SearchResult {
	var out []SearchResult
	for r := range s.Search(criteria, fuzzy, threshold) {
		out = append(out, r)
	}
	return out
}

func (s *Store) collectMatches(criteria Criteria, fuzzy bool, threshold int) []SearchResult {
	var results []SearchResult
	err := s.forEachPerson(func(p *Person) bool {
		if criteria.PersonID != "" && p.PersonID != criteria.PersonID {
			return true
		}
		if !genderCompatible(criteria.Gender, p.Gender) {
			return true
		}

		if fuzzy {
			confidence := s.scoreAgainst(criteria, p)
			if confidence >= threshold && confidence > 0 {
				results = append(results, SearchResult{Person: p, Confidence: confidence})
			}
			return true
		}

		if s.exactMatch(criteria, p) {
			results = append(results, SearchResult{Person: p, Confidence: 100})
		}
		return true
	})
	if err != nil {
		s.log.Errorw("search scan failed", logger.FieldError, err)
		return nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Person.PersonID < results[j].Person.PersonID
	})

	s.log.Debugw("search finished",
		logger.FieldCount, len(results),
		logger.FieldThreshold, threshold)
	return results
}

// scoreAgainst computes confidence restricted to the supplied criteria:
// fields absent from the query drop out of the weighting entirely, so a
// surname-only search is scored purely on surname similarity.
func (s *Store) scoreAgainst(criteria Criteria, p *Person) int {
	query, record := searchCandidates(criteria, p)
	return s.matcher.Confidence(query, record)
}

// searchCandidates projects the query and the record into candidate pairs
// that compare like against like: surname-to-surname when only a surname is
// supplied, full name against full name when both parts are.
func searchCandidates(criteria Criteria, p *Person) (query, record match.Candidate) {
	recordGiven := p.GivenNames
	if recordGiven == "" && len(p.Nicknames) > 0 {
		recordGiven = strings.Join(p.Nicknames, " ")
	}

	switch {
	case criteria.GivenNames != "" && criteria.Surname != "":
		query.GivenNames, query.Surname = criteria.GivenNames, criteria.Surname
		record.GivenNames, record.Surname = recordGiven, p.Surname
		record.Alternates = append(append([]string{}, p.Alternates...), p.Nicknames...)
	case criteria.Surname != "":
		query.FullName = criteria.Surname
		record.FullName = p.Surname
		record.Alternates = p.Alternates
	case criteria.GivenNames != "":
		query.GivenNames = criteria.GivenNames
		record.GivenNames = recordGiven
		record.Alternates = p.Nicknames
	}

	if criteria.BirthYear != 0 {
		query.BirthYear = criteria.BirthYear
		record.BirthYear = p.BirthYear
	}
	if criteria.Location != "" {
		query.BirthPlace = criteria.Location
		record.BirthPlace = p.BirthPlace
	}
	return query, record
}

func (s *Store) exactMatch(criteria Criteria, p *Person) bool {
	if criteria.Surname != "" &&
		match.NormalizeName(criteria.Surname) != match.NormalizeName(p.Surname) {
		return false
	}
	if criteria.GivenNames != "" &&
		match.NormalizeName(criteria.GivenNames) != match.NormalizeName(p.GivenNames) {
		return false
	}
	if criteria.BirthYear != 0 && p.BirthYear != criteria.BirthYear {
		return false
	}
	if criteria.Location != "" &&
		s.matcher.NormalizeLocation(criteria.Location) != s.matcher.NormalizeLocation(p.BirthPlace) {
		return false
	}
	return true
}

// genderCompatible filters on gender without penalizing the unknown: a
// record with no recorded gender (or "Unknown") passes any gender query.
func genderCompatible(want, have string) bool {
	if want == "" || have == "" || strings.EqualFold(have, "unknown") {
		return true
	}
	return strings.EqualFold(want, have)
}

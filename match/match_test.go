package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biograf/biograf/names"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase and collapse", "  Johann   Wolfgang  ", "johann wolfgang"},
		{"periods removed", "John Q. Public", "john q public"},
		{"suffix jr", "Johann Wolfgang von Goethe Jr.", "johann wolfgang von goethe"},
		{"suffix roman numeral", "Wilhelm Schmidt III", "wilhelm schmidt"},
		{"honorific stripped", "Dr. John Public", "john public"},
		{"umlaut folded", "Hans Müller", "hans mueller"},
		{"eszett folded", "Johann Weiß", "johann weiss"},
		{"apostrophe dropped", "Mary O'Brien", "mary obrien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestMatchName(t *testing.T) {
	m := New(Config{})

	t.Run("identical after folding scores above 90", func(t *testing.T) {
		score := m.MatchName("Hans Mueller", "Hans Müller")
		assert.Greater(t, score, 90.0, "umlaut variant should be a near-perfect match")
	})

	t.Run("unrelated names score below 30", func(t *testing.T) {
		score := m.MatchName("Hans Mueller", "Totally Different Name")
		assert.Less(t, score, 30.0, "unrelated names must not look like matches")
	})

	t.Run("token order is ignored", func(t *testing.T) {
		score := m.MatchName("Mueller Hans", "Hans Mueller")
		assert.Equal(t, 100.0, score, "token sort should make order irrelevant")
	})

	t.Run("alternates lift the score", func(t *testing.T) {
		without := m.MatchName("Smith", "Smythe")
		with := m.MatchName("Smith", "Smythe", "Smythe")
		assert.Greater(t, with, without, "a matching alternate should win")
		assert.Equal(t, 100.0, with)
	})

	t.Run("empty names score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, m.MatchName("", "Hans Mueller"))
		assert.Equal(t, 0.0, m.MatchName("Hans Mueller", ""))
	})

	t.Run("close surnames score high", func(t *testing.T) {
		score := m.MatchName("Johnson", "Johnsen")
		assert.Greater(t, score, 80.0)
		assert.Less(t, score, 100.0)
	})
}

func TestMatchLocation(t *testing.T) {
	m := New(Config{})

	t.Run("abbreviation expansion scores above 90", func(t *testing.T) {
		score := m.MatchLocation("Harvey, North Dakota", "Harvey, ND")
		assert.Greater(t, score, 90.0, "state abbreviation should normalize away")
	})

	t.Run("subset of hierarchy scores high", func(t *testing.T) {
		score := m.MatchLocation("London", "London, England")
		assert.GreaterOrEqual(t, score, 90.0, "city-only should match city+country")
	})

	t.Run("different places score low", func(t *testing.T) {
		score := m.MatchLocation("Harvey, ND", "Berlin, Germany")
		assert.Less(t, score, 50.0)
	})

	t.Run("empty locations score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, m.MatchLocation("", "Harvey, ND"))
		assert.Equal(t, 0.0, m.MatchLocation("Harvey, ND", ""))
	})
}

func TestConfidenceIdenticalRecords(t *testing.T) {
	m := New(Config{})

	a := Candidate{
		GivenNames: "Johann",
		Surname:    "Johnson",
		BirthYear:  1825,
		BirthPlace: "Harvey, ND",
		FatherName: "Hans Johnson",
	}
	b := Candidate{
		GivenNames: "Johann",
		Surname:    "Johnson",
		BirthYear:  1825,
		BirthPlace: "Harvey, North Dakota",
		FatherName: "Hans Johnson",
	}

	assert.Equal(t, 100, m.Confidence(a, b), "identical records must score 100")
}

func TestConfidenceNameOnly(t *testing.T) {
	m := New(Config{})

	// Unknown fields drop out of the average instead of dragging it down:
	// two records that agree on everything they both know are a full match.
	a := Candidate{GivenNames: "Johann", Surname: "Johnson"}
	b := Candidate{GivenNames: "Johann", Surname: "Johnson"}

	assert.Equal(t, 100, m.Confidence(a, b))
}

func TestConfidenceYearConflictVeto(t *testing.T) {
	m := New(Config{})

	a := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthYear: 1825}
	b := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthYear: 1900}

	bd := m.Breakdown(a, b)
	assert.True(t, bd.YearConflict, "75-year gap must flag a conflict")
	assert.LessOrEqual(t, bd.Overall, 10, "conflicting years veto the name score")
	assert.Less(t, bd.Overall, 80, "must sit below any duplicate threshold")
}

func TestConfidenceYearDecay(t *testing.T) {
	m := New(Config{})

	tests := []struct {
		name  string
		yearB int
		want  float64
	}{
		{"exact year", 1825, 100.0},
		{"within two years", 1827, 90.0},
		{"within cutoff", 1830, 70.0},
		{"beyond cutoff", 1833, 0.0},
	}

	a := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthYear: 1825}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthYear: tt.yearB}
			bd := m.Breakdown(a, b)
			require.NotNil(t, bd.BirthYearScore)
			assert.Equal(t, tt.want, *bd.BirthYearScore)
			assert.False(t, bd.YearConflict)
		})
	}
}

func TestBreakdownMissingFields(t *testing.T) {
	m := New(Config{})

	a := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthYear: 1825}
	b := Candidate{GivenNames: "Johann", Surname: "Johnson"}

	bd := m.Breakdown(a, b)
	assert.Nil(t, bd.BirthYearScore, "year unknown on one side must not contribute")
	assert.Nil(t, bd.ParentScore)
	assert.Nil(t, bd.LocationScore)
	assert.Equal(t, 100, bd.Overall)
}

func TestParentCorroboration(t *testing.T) {
	m := New(Config{})

	base := Candidate{GivenNames: "Anna", Surname: "Berg", BirthYear: 1850}

	same := base
	same.FatherName = "Karl Berg"
	same.MotherName = "Maria Berg"

	other := base
	other.FatherName = "Karl Berg"
	other.MotherName = "Maria Berg"

	bd := m.Breakdown(same, other)
	require.NotNil(t, bd.ParentScore)
	assert.Equal(t, 100.0, *bd.ParentScore)

	// Non-overlapping parent knowledge drops the field entirely.
	fatherOnly := base
	fatherOnly.FatherName = "Karl Berg"
	motherOnly := base
	motherOnly.MotherName = "Maria Berg"
	assert.Nil(t, m.Breakdown(fatherOnly, motherOnly).ParentScore)
}

func TestNicknameAlternates(t *testing.T) {
	m := New(Config{})

	a := Candidate{GivenNames: "Bill", Surname: "Johnson"}
	b := Candidate{GivenNames: "William", Surname: "Johnson"}

	assert.Equal(t, 100, m.Confidence(a, b), "nickname registry should bridge Bill/William")
}

func TestNicknameRegistryOverride(t *testing.T) {
	nicks := names.NewRegistry()
	nicks.Merge(map[string]string{"wastl": "sebastian"})
	m := New(Config{Nicknames: nicks})

	a := Candidate{GivenNames: "Wastl", Surname: "Huber"}
	b := Candidate{GivenNames: "Sebastian", Surname: "Huber"}

	assert.Equal(t, 100, m.Confidence(a, b))
}

func TestConfidenceNoFields(t *testing.T) {
	m := New(Config{})
	assert.Equal(t, 0, m.Confidence(Candidate{}, Candidate{}), "nothing known means no confidence")
}

func TestCustomWeights(t *testing.T) {
	// Weights are relative; scoring renormalizes over present fields.
	m := New(Config{Weights: Weights{Name: 3, Location: 1}})

	a := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthPlace: "Harvey, ND"}
	b := Candidate{GivenNames: "Johann", Surname: "Johnson", BirthPlace: "Berlin"}

	bd := m.Breakdown(a, b)
	require.NotNil(t, bd.LocationScore)
	// name 100 at weight 3, location low at weight 1: overall stays high
	assert.Greater(t, bd.Overall, 70)
	assert.Less(t, bd.Overall, 100)
}

package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/persons"
)

var (
	searchGiven     string
	searchSurname   string
	searchBirthYear int
	searchLocation  string
	searchGender    string
	searchPersonID  string
	searchExact     bool
	searchThreshold int
	searchLimit     int
)

// SearchCmd represents the search command
var SearchCmd = &cobra.Command{
	Use:   "search [NAME...]",
	Short: "Search for person records",
	Long: `Search the store for persons matching the given criteria.

Fuzzy matching is the default: each record is scored 0-100 on the supplied
fields only, and hits at or above the threshold are returned in descending
confidence order. With --exact every supplied field must match after
normalization (case, umlauts, honorifics, location abbreviations).

A bare name argument is split on the last space: "Johann Johnson" searches
given names "Johann" and surname "Johnson".

Examples:
  biograf search Johann Johnson
  biograf search --surname Johnson --birth-year 1825
  biograf search --surname Mueller --exact
  biograf search Bill --threshold 70 --limit 5`,
	RunE: runSearch,
}

func init() {
	SearchCmd.Flags().StringVar(&searchGiven, "given", "", "Given names to match")
	SearchCmd.Flags().StringVar(&searchSurname, "surname", "", "Surname to match")
	SearchCmd.Flags().IntVar(&searchBirthYear, "birth-year", 0, "Birth year to match")
	SearchCmd.Flags().StringVar(&searchLocation, "location", "", "Birth place to match")
	SearchCmd.Flags().StringVar(&searchGender, "gender", "", "Restrict results to a gender")
	SearchCmd.Flags().StringVar(&searchPersonID, "id", "", "Restrict results to one person ID")
	SearchCmd.Flags().BoolVar(&searchExact, "exact", false, "Require exact matches on supplied fields")
	SearchCmd.Flags().IntVar(&searchThreshold, "threshold", 0, "Minimum confidence for fuzzy hits (default from config)")
	SearchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Stop after this many results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	criteria := persons.Criteria{
		PersonID:   searchPersonID,
		GivenNames: searchGiven,
		Surname:    searchSurname,
		BirthYear:  searchBirthYear,
		Location:   searchLocation,
		Gender:     searchGender,
	}

	// Positional name: last token is the surname, the rest are given names.
	if len(args) > 0 && criteria.GivenNames == "" && criteria.Surname == "" {
		name := strings.Fields(strings.Join(args, " "))
		if len(name) == 1 {
			criteria.GivenNames = name[0]
		} else {
			criteria.GivenNames = strings.Join(name[:len(name)-1], " ")
			criteria.Surname = name[len(name)-1]
		}
	}

	threshold := searchThreshold
	if threshold == 0 {
		threshold = cfg.Search.Threshold
	}

	var results []persons.SearchResult
	for r := range store.Search(criteria, !searchExact, threshold) {
		results = append(results, r)
		if searchLimit > 0 && len(results) >= searchLimit {
			break
		}
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"count":   len(results),
			"results": results,
		})
	}
	display.RenderSearchResults(results)
	return nil
}

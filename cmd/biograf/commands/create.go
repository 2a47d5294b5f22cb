package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/persons"
)

var (
	createGiven      string
	createSurname    string
	createGender     string
	createBirthYear  int
	createBirthDate  string
	createBirthPlace string
	createFather     string
	createMother     string
	createAlternates []string
	createSources    []string
	createNotes      string
	createTags       []string
	createID         string
	createIDFormat   string
	createSkipDedup  bool
	createStrict     bool
	createThreshold  int
)

// CreateCmd represents the create command
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new person record",
	Long: `Create a new person record in the store.

Every existing record is scored against the new one first. At or above the
dedup threshold the store either returns the existing record (default) or
fails with a duplicate error (--strict).

Examples:
  biograf create --given "Johann" --surname "Johnson" --birth-year 1825
  biograf create --given "Anna" --surname "Berg" --source census_1850.pdf
  biograf create --given "Wilhelm" --surname "Jahr" --id I382000000421
  biograf create --given "Pat" --surname "Doe" --skip-duplicate-check`,
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVar(&createGiven, "given", "", "Given names (required)")
	CreateCmd.Flags().StringVar(&createSurname, "surname", "", "Surname (required)")
	CreateCmd.Flags().StringVar(&createGender, "gender", "", "Gender (Male, Female, Unknown)")
	CreateCmd.Flags().IntVar(&createBirthYear, "birth-year", 0, "Birth year")
	CreateCmd.Flags().StringVar(&createBirthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	CreateCmd.Flags().StringVar(&createBirthPlace, "birth-place", "", "Birth place")
	CreateCmd.Flags().StringVar(&createFather, "father", "", "Father's full name")
	CreateCmd.Flags().StringVar(&createMother, "mother", "", "Mother's full name")
	CreateCmd.Flags().StringArrayVar(&createAlternates, "alternate", nil, "Alternate spelling (repeatable)")
	CreateCmd.Flags().StringArrayVar(&createSources, "source", nil, "Source document (repeatable)")
	CreateCmd.Flags().StringVar(&createNotes, "notes", "", "Free-form notes")
	CreateCmd.Flags().StringArrayVar(&createTags, "tag", nil, "Tag (repeatable)")
	CreateCmd.Flags().StringVar(&createID, "id", "", "Explicit person ID instead of a generated one")
	CreateCmd.Flags().StringVar(&createIDFormat, "id-format", "", "ID format for this record (gedcom, gfr, custom, compact)")
	CreateCmd.Flags().BoolVar(&createSkipDedup, "skip-duplicate-check", false, "Create without scoring against existing records")
	CreateCmd.Flags().BoolVar(&createStrict, "strict", false, "Fail on duplicate instead of returning the existing record")
	CreateCmd.Flags().IntVar(&createThreshold, "threshold", 0, "Dedup threshold override for this call (1-100)")

	CreateCmd.MarkFlagRequired("given")
	CreateCmd.MarkFlagRequired("surname")
}

func runCreate(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	fields := persons.Fields{
		GivenNames: createGiven,
		Surname:    createSurname,
		Gender:     createGender,
		BirthYear:  createBirthYear,
		BirthDate:  createBirthDate,
		BirthPlace: createBirthPlace,
		FatherName: createFather,
		MotherName: createMother,
		Alternates: createAlternates,
		Sources:    createSources,
		Notes:      createNotes,
		Tags:       createTags,
	}

	p, created, err := store.Create(fields, persons.CreateOptions{
		PersonID:           createID,
		SkipDuplicateCheck: createSkipDedup,
		Threshold:          createThreshold,
		Strict:             createStrict,
	})
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"created": created,
			"person":  p,
		})
	}

	if created {
		pterm.Success.Printf("Created %s\n", p.PersonID)
	} else {
		pterm.Warning.Printf("Matched existing record %s; nothing created\n", p.PersonID)
	}
	display.RenderPerson(p)
	return nil
}

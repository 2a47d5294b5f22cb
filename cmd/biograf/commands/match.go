package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
)

// MatchCmd represents the match command
var MatchCmd = &cobra.Command{
	Use:   "match <person-id> <person-id>",
	Short: "Explain how strongly two records match",
	Long: `Score two person records against each other and print the per-field
breakdown the duplicate detector uses. Useful for understanding why a
create was flagged as a duplicate, or why it was not.

Examples:
  biograf match I382000000001 I382000000002
  biograf match I382000000001 I382000000002 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	a, err := store.Read(args[0])
	if err != nil {
		return err
	}
	b, err := store.Read(args[1])
	if err != nil {
		return err
	}

	breakdown := store.Matcher().Breakdown(a.Candidate(), b.Candidate())

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_a":  a.PersonID,
			"person_b":  b.PersonID,
			"breakdown": breakdown,
		})
	}

	pterm.Info.Printf("%s (%s) vs %s (%s)\n", a.FullName, a.PersonID, b.FullName, b.PersonID)
	display.RenderBreakdown(breakdown)
	return nil
}

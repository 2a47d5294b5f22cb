package commands

import (
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
)

// ShowCmd represents the show command
var ShowCmd = &cobra.Command{
	Use:   "show <person-id>",
	Short: "Show a person record",
	Long: `Display a single person record by its ID.

The record is located by the person_id embedded in the document, so renamed
files are still found.

Examples:
  biograf show I382000000042
  biograf show I382000000042 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	p, err := store.Read(args[0])
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(p)
	}
	display.RenderPerson(p)
	return nil
}

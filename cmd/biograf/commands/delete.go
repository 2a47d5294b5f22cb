package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
)

var deletePermanent bool

// DeleteCmd represents the delete command
var DeleteCmd = &cobra.Command{
	Use:   "delete <person-id>",
	Short: "Delete a person record",
	Long: `Remove a person record from the live set.

By default the record is archived: it moves to the archive directory and can
be brought back with restore. With --permanent the live document is removed
outright. Either way a backup is written first, so restore works even after
a permanent delete.

Examples:
  biograf delete I382000000042
  biograf delete I382000000042 --permanent`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	DeleteCmd.Flags().BoolVar(&deletePermanent, "permanent", false, "Remove instead of archiving")
}

func runDelete(cmd *cobra.Command, args []string) error {
	personID := args[0]

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := store.Delete(personID, !deletePermanent); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_id": personID,
			"archived":  !deletePermanent,
		})
	}

	if deletePermanent {
		pterm.Success.Printf("Deleted %s (backup retained)\n", personID)
	} else {
		pterm.Success.Printf("Archived %s\n", personID)
	}
	return nil
}

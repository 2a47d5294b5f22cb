package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
)

// RestoreCmd represents the restore command
var RestoreCmd = &cobra.Command{
	Use:   "restore <person-id>",
	Short: "Restore a deleted person record",
	Long: `Bring a deleted person back from its newest backup.

The backup bytes are written to the live set exactly as they were saved,
and any archived copy is cleaned up. Restoring a person that is still
active is a no-op.

Examples:
  biograf restore I382000000042`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	personID := args[0]

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	restored, err := store.Restore(personID)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_id": personID,
			"restored":  restored,
		})
	}

	if restored {
		pterm.Success.Printf("Restored %s from its newest backup\n", personID)
	} else {
		pterm.Info.Printf("%s is already active; nothing to restore\n", personID)
	}
	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
)

// BackupsCmd represents the backups command
var BackupsCmd = &cobra.Command{
	Use:   "backups <person-id>",
	Short: "List backups for a person",
	Long: `List a person's backup history, newest first.

A backup is written before every destructive operation (update, delete,
fix), so this is the full revision history of the record.

Examples:
  biograf backups I382000000042`,
	Args: cobra.ExactArgs(1),
	RunE: runBackups,
}

func runBackups(cmd *cobra.Command, args []string) error {
	personID := args[0]

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	entries, err := store.ListBackups(personID)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_id": personID,
			"backups":   entries,
		})
	}
	display.RenderBackups(personID, entries)
	return nil
}

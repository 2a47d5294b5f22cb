package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/errors"
)

// UpdateCmd represents the update command
var UpdateCmd = &cobra.Command{
	Use:   "update <person-id> <path=value>...",
	Short: "Update fields of a person record",
	Long: `Apply one or more dotted-path assignments to a person record.

Intermediate mappings are created as needed. Numeric values become integers,
"true"/"false" become booleans, and comma-separated values become lists.
A backup of the previous revision is written before anything changes; if
every value is already current, nothing is written at all.

The person_id field cannot be changed.

Examples:
  biograf update I382000000042 vital_events.birth.year=1825
  biograf update I382000000042 name.alternate_spellings=Bill,Billy
  biograf update I382000000042 vital_events.death.year=1901 vital_events.death.place="Harvey, ND"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	personID := args[0]

	patch := make(map[string]any, len(args)-1)
	for _, arg := range args[1:] {
		path, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.Newf("malformed assignment %q (want path=value)", arg)
		}
		patch[path] = parseValue(raw)
	}

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	changed, err := store.Update(personID, patch)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_id": personID,
			"changed":   changed,
		})
	}

	if changed {
		pterm.Success.Printf("Updated %s (%d field(s))\n", personID, len(patch))
	} else {
		pterm.Info.Printf("No changes for %s; values already current\n", personID)
	}
	return nil
}

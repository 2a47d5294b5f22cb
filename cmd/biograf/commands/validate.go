package commands

import (
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/docio"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/persons"
)

var (
	validateFix       bool
	validateLimit     int
	validateSkipValid bool
)

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate [person-id]",
	Short: "Validate person documents",
	Long: `Check person documents for structural and biographical problems.

Without an argument the whole live set is scanned; corrupt files are
reported without aborting the scan. ERROR issues block writes, WARNING and
INFO issues are advisory. --fix repairs every fixable issue in place
(stale full_name, missing or outdated schema_version), taking a backup
first.

Examples:
  biograf validate
  biograf validate I382000000042
  biograf validate --fix
  biograf validate --skip-valid --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().BoolVar(&validateFix, "fix", false, "Repair fixable issues")
	ValidateCmd.Flags().IntVar(&validateLimit, "limit", 0, "Stop after this many documents")
	ValidateCmd.Flags().BoolVar(&validateSkipValid, "skip-valid", false, "Report only documents with issues")
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return validateOne(cmd, store, args[0])
	}
	return validateAll(cmd, store)
}

func validateOne(cmd *cobra.Command, store *persons.Store, personID string) error {
	if validateFix {
		fixed, err := store.Fix(personID)
		if err != nil {
			return err
		}
		if fixed && !display.ShouldOutputJSON(cmd) {
			pterm.Success.Printf("Repaired %s\n", personID)
		}
	}

	issues, err := store.Validate(personID)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"person_id": personID,
			"issues":    issues,
			"summary":   persons.Summarize(issues),
		})
	}
	display.RenderIssues(personID, issues)
	return nil
}

func validateAll(cmd *cobra.Command, store *persons.Store) error {
	byPath, err := store.ValidateAll(validateLimit, validateSkipValid)
	if err != nil {
		return err
	}

	if validateFix {
		fixFixable(store, byPath)
		// Re-scan so the report reflects the repaired state
		byPath, err = store.ValidateAll(validateLimit, validateSkipValid)
		if err != nil {
			return err
		}
	}

	var all []persons.Issue
	for _, issues := range byPath {
		all = append(all, issues...)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"files":   len(byPath),
			"issues":  byPath,
			"summary": persons.Summarize(all),
		})
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		display.RenderIssues(path, byPath[path])
	}
	display.RenderValidationSummary(len(byPath), persons.Summarize(all))
	return nil
}

// fixFixable repairs every document in the report that carries a fixable
// issue. Documents whose person_id cannot be read are skipped.
func fixFixable(store *persons.Store, byPath map[string][]persons.Issue) {
	log := logger.ComponentLogger(logger.ComponentCLI)
	for path, issues := range byPath {
		if !persons.HasFixable(issues) {
			continue
		}
		doc, err := docio.Load(path)
		if err != nil {
			log.Warnw("cannot load document for repair", logger.FieldPath, path, logger.FieldError, err)
			continue
		}
		p := persons.FromDocument(doc, path)
		if p.PersonID == "" {
			log.Warnw("document has no person_id; cannot repair", logger.FieldPath, path)
			continue
		}
		if _, err := store.Fix(p.PersonID); err != nil {
			log.Warnw("repair failed", logger.FieldPersonID, p.PersonID, logger.FieldError, err)
		}
	}
}

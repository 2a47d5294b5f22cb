package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biograf/biograf/cmd/biograf/commands"
	"github.com/biograf/biograf/errors"
	"github.com/biograf/biograf/logger"
)

var rootCmd = &cobra.Command{
	Use:   "biograf",
	Short: "biograf - biographical person-record store",
	Long: `biograf - a crash-safe store for biographical person records.

Records are plain YAML documents, one per person. Every write is atomic,
every destructive operation takes a timestamped backup first, and deletes
archive instead of destroying. Creates are checked against the existing
records with fuzzy name/year/place matching so the same person is not
entered twice.

Available commands:
  create   - Create a person record (with duplicate detection)
  show     - Show a person record
  update   - Apply dotted-path field updates
  delete   - Archive or remove a record
  restore  - Bring a deleted record back from backup
  search   - Fuzzy or exact search across records
  match    - Explain how strongly two records match
  backups  - List a record's backup history
  validate - Check documents, optionally repairing fixable issues
  watch    - Re-validate documents as they change on disk
  status   - Store counts and disk usage
  registry - Manage location/nickname lookup tables
  config   - Manage configuration
  mcp      - Serve read-only tools over Model Context Protocol

Examples:
  biograf create --given "Johann" --surname "Johnson" --birth-year 1825
  biograf search Johann Johnson
  biograf update I382000000042 birth.place="Harvey, ND"
  biograf validate --fix`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logging before any command runs. Flags override
		// configuration; configuration failures here are ignored so that
		// `biograf config validate` can still diagnose them.
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
		jsonLogs, _ := cmd.Root().PersistentFlags().GetBool("json")
		if cfg, err := commands.LoadConfig(cmd); err == nil {
			verbose = verbose || cfg.Log.Verbose
			jsonLogs = jsonLogs || cfg.Log.JSON
		}
		if err := logger.Initialize(verbose, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug-level logging")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable output and JSON logs")
	rootCmd.PersistentFlags().String("config", "", "Config file to use instead of the normal search chain")

	rootCmd.AddCommand(commands.CreateCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.UpdateCmd)
	rootCmd.AddCommand(commands.DeleteCmd)
	rootCmd.AddCommand(commands.RestoreCmd)
	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.MatchCmd)
	rootCmd.AddCommand(commands.BackupsCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.RegistryCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.McpCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

// exitCode maps an error onto the documented process exit codes, so scripts
// can tell "no such person" from "disk trouble" without parsing stderr.
func exitCode(err error) int {
	switch {
	case errors.IsNotFoundError(err):
		return 2
	case errors.IsDuplicateError(err):
		return 3
	case errors.IsIDExhaustedError(err):
		return 4
	case errors.IsCorruptDocumentError(err):
		return 5
	case errors.IsNoBackupError(err):
		return 6
	}
	return 1
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

package commands

import (
	"github.com/pterm/pterm"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/errors"
)

// StatusCmd represents the status command
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store contents and disk usage",
	Long: `Summarize the store: live, archived, and backup counts, the disk
holding the data directory, and the configured thresholds. A quick
preflight before bulk imports.

Examples:
  biograf status
  biograf status --json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	usage, err := disk.Usage(store.PersonsDir())
	if err != nil {
		return errors.Wrap(err, "read disk usage")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"persons_dir": store.PersonsDir(),
			"backup_dir":  store.BackupDir(),
			"archive_dir": store.ArchiveDir(),
			"stats":       stats,
			"disk": map[string]any{
				"total_bytes":  usage.Total,
				"free_bytes":   usage.Free,
				"used_percent": usage.UsedPercent,
			},
			"thresholds": map[string]any{
				"dedup":  cfg.Dedup.Threshold,
				"warn":   cfg.Dedup.WarnThreshold,
				"search": cfg.Search.Threshold,
			},
		})
	}

	display.RenderStats(stats)
	pterm.Println()
	pterm.Info.Printf("Storage:\n")
	pterm.Printf("  Persons:  %s\n", store.PersonsDir())
	pterm.Printf("  Backups:  %s\n", store.BackupDir())
	pterm.Printf("  Archive:  %s\n", store.ArchiveDir())
	pterm.Printf("  Disk:     %s free of %s (%.1f%% used)\n",
		formatBytes(usage.Free), formatBytes(usage.Total), usage.UsedPercent)
	pterm.Println()
	pterm.Info.Printf("Thresholds:\n")
	pterm.Printf("  Dedup:  %d\n", cfg.Dedup.Threshold)
	pterm.Printf("  Warn:   %d\n", cfg.Dedup.WarnThreshold)
	pterm.Printf("  Search: %d\n", cfg.Search.Threshold)
	return nil
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return pterm.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return pterm.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

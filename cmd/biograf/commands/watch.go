package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/display"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/persons"
	"github.com/biograf/biograf/watch"
)

var (
	watchDebounce time.Duration
	watchRate     float64
	watchExec     string
)

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store and re-validate changed documents",
	Long: `Observe the live person directory and re-validate documents as they
change. Each change is debounced per file, and a per-file rate limit keeps
edit floods from wedging the process.

With --exec a hook command runs after each processed change, with the
changed path appended as the final argument.

Examples:
  biograf watch
  biograf watch --debounce 2s
  biograf watch --exec 'git add'`,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period per file before processing (default 500ms)")
	WatchCmd.Flags().Float64Var(&watchRate, "rate", 0, "Max processed changes per file per minute (default 60)")
	WatchCmd.Flags().StringVar(&watchExec, "exec", "", "Command to run after each change, changed path appended")
}

func runWatch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	jsonOut := display.ShouldOutputJSON(cmd)
	onChange := func(path string, issues []persons.Issue) {
		if jsonOut {
			display.OutputJSON(map[string]any{
				"path":   path,
				"issues": issues,
			})
			return
		}
		display.RenderIssues(path, issues)
	}

	w, err := watch.New(watch.Options{
		Dir:                store.PersonsDir(),
		Debounce:           watchDebounce,
		MaxEventsPerMinute: watchRate,
		Exec:               watchExec,
		OnChange:           onChange,
		Logger:             logger.ComponentLogger(logger.ComponentWatch),
	})
	if err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return err
	}

	if !jsonOut {
		pterm.Info.Printf("Watching %s (Ctrl+C to stop)\n", store.PersonsDir())
	}

	// Wait for shutdown signal (Ctrl+C)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if !jsonOut {
		pterm.Info.Println("\nShutting down (press Ctrl+C again to force)...")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		if !jsonOut {
			pterm.Success.Println("Watcher stopped cleanly")
		}
		return nil
	case <-sigChan:
		if !jsonOut {
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
		}
		os.Exit(1)
		return nil // unreachable
	}
}

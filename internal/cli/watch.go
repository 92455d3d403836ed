package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/heraerp/heralint/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-lint the bundle whenever it changes",
	Long: `Re-lint the bundle whenever it changes.

Watches the bundle directory tree and runs a full lint after each batch
of filesystem changes, debounced so rapid saves trigger one run. The
.hera output directory and rewrite backups are ignored. Stop with
Ctrl-C.`,
	Example: `  heralint watch
  heralint watch --bundle ./playbooks --compat`,
	GroupID: GroupValidation,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
		applyLintFlags(cmd, cfg)
		return runWatch(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	watchCmd.Flags().String("bundle", "", "Bundle root directory (overrides config)")
	watchCmd.Flags().Bool("compat", false, "Normalize legacy field names before validation")
	watchCmd.Flags().Bool("compat-write", false, "Persist normalized documents back to disk (implies --compat)")
	watchCmd.Flags().Bool("strict-compat", false, "Treat needed-but-unwritten rewrites as errors (implies --compat)")
	watchCmd.Flags().String("backup-ext", "", "Backup suffix for rewritten files (default .bak)")
	rootCmd.AddCommand(watchCmd)
}

// runWatch lints once, then re-lints after every debounced batch of
// changes until interrupted.
func runWatch(cfg *config.Configuration, out, errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(errOut, "Error: cannot start watcher: %v\n", err)
		return NewExitError(ExitIOError)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, cfg.BundleDir); err != nil {
		fmt.Fprintf(errOut, "Error: cannot watch %s: %v\n", cfg.BundleDir, err)
		return NewExitError(ExitInvalidArguments)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(errOut, "%s watching %s (Ctrl-C to stop)\n", cyan("▸"), cfg.BundleDir)

	lintOnce := func() {
		// Watch mode keeps going regardless of each run's outcome.
		_ = runLint(cfg, out, errOut)
	}
	lintOnce()

	debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event) {
				continue
			}
			// New directories need to be picked up for future events.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() { pending <- struct{}{} })
			} else {
				timer.Reset(debounce)
			}

		case <-pending:
			timer = nil
			fmt.Fprintf(errOut, "\n%s change detected, re-linting\n", cyan("▸"))
			lintOnce()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "Warning: watch error: %v\n", watchErr)

		case <-interrupt:
			fmt.Fprintln(errOut, "stopped")
			return nil
		}
	}
}

// addWatchDirs registers root and every subdirectory with the watcher,
// skipping the lint output directory.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".hera" || strings.HasPrefix(d.Name(), ".git") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevantChange filters events down to contract-shaped file changes.
func relevantChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	path := filepath.ToSlash(event.Name)
	if strings.Contains(path, "/.hera/") {
		return false
	}
	switch ext := filepath.Ext(name); ext {
	case ".yaml", ".yml", ".json":
		return true
	default:
		// Directory creations have no extension but matter for watching.
		info, err := os.Stat(event.Name)
		return err == nil && info.IsDir()
	}
}

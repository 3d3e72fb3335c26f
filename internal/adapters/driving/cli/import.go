package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/logger"
)

var (
	importBooks   []string
	importGroups  []string
	importSRD     bool
	importRuleset string
	importWatch   bool
)

var importCmd = &cobra.Command{
	Use:   "import [data-root]",
	Short: "Import book data into the catalog",
	Long: `Imports 5etools-style JSON data into the local catalog.

The data root is a directory with one subdirectory per book, named by
its source code, plus an optional books.json manifest. When no data
root is given on the command line, import.data_root from the config
file is used.

By default every discovered book is imported. Use --book to select
specific books (a trailing * matches by prefix), --group to select by
manifest group, or --srd to build the license-safe reference catalog
from SRD-marked entities only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSliceVarP(&importBooks, "book", "b", nil,
		"book code to import (repeatable, trailing * matches by prefix)")
	importCmd.Flags().StringSliceVarP(&importGroups, "group", "g", nil,
		"manifest group to import (repeatable)")
	importCmd.Flags().BoolVar(&importSRD, "srd", false,
		"import only SRD-marked entities under the SRD pseudo-book")
	importCmd.Flags().StringVar(&importRuleset, "ruleset", "",
		"SRD ruleset: legacy (5.1) or current (5.2)")
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false,
		"stay running and re-import when the data root changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	root, err := resolveDataRoot(args)
	if err != nil {
		return err
	}

	scope, err := buildScope()
	if err != nil {
		return err
	}

	if err := runImportOnce(cmd, root, scope); err != nil {
		return err
	}
	if !importWatch {
		return nil
	}
	return watchAndReimport(cmd, root, scope)
}

func resolveDataRoot(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if configStore != nil {
		if root := configStore.GetString(file.KeyDataRoot); root != "" {
			return root, nil
		}
	}
	return "", errors.New("no data root given and import.data_root is not configured")
}

func buildScope() (domain.ImportScope, error) {
	scope := domain.ImportScope{
		Books:   importBooks,
		Groups:  importGroups,
		SRDOnly: importSRD,
	}

	ruleset := importRuleset
	if ruleset == "" && configStore != nil {
		ruleset = configStore.GetString(file.KeyRuleset)
	}
	switch ruleset {
	case "", string(domain.SRDLegacy):
		scope.Ruleset = domain.SRDLegacy
	case string(domain.SRDCurrent):
		scope.Ruleset = domain.SRDCurrent
	default:
		return scope, fmt.Errorf("unknown ruleset %q (want legacy or current)", ruleset)
	}

	if scope.SRDOnly && (len(scope.Books) > 0 || len(scope.Groups) > 0) {
		return scope, errors.New("--srd cannot be combined with --book or --group")
	}
	return scope, nil
}

func runImportOnce(cmd *cobra.Command, root string, scope domain.ImportScope) error {
	report, err := importService.Import(cmd.Context(), root, scope)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printReport(cmd, report)
	return nil
}

// printReport renders the per-kind outcome of one import pass.
func printReport(cmd *cobra.Command, report *domain.ImportReport) {
	cmd.Print(report.Summary())
	cmd.Printf("Finished in %s\n",
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

// watchAndReimport blocks and re-runs the import whenever JSON files
// under the data root change. Events are debounced because editors and
// sync tools write in bursts.
func watchAndReimport(cmd *cobra.Command, root string, scope domain.ImportScope) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", root)

	const settle = 2 * time.Second
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New book directories need their own watch.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.AfterFunc(settle, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(settle)
			}

		case <-pending:
			timer = nil
			cmd.Println("Data root changed, re-importing")
			if err := runImportOnce(cmd, root, scope); err != nil {
				// Keep watching; a half-written file will settle.
				cmd.PrintErrf("re-import failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// watchTree registers a directory and its immediate children.
// Book data lives one level below the root.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			_ = watcher.Add(filepath.Join(root, entry.Name()))
		}
	}
	return nil
}

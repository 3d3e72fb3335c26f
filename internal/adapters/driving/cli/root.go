// Package cli implements the command line interface for grimoire.
// Commands register themselves against the root command in init and
// talk to core services through the driving ports.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/storage/sqlite"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/services"
	"github.com/harrowgate-labs/grimoire-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices and consumed by the commands.
// Tests may inject their own implementations.
var (
	store          *sqlite.Store
	configStore    *file.ConfigStore
	importService  driving.ImportService
	searchService  driving.SearchService
	catalogService driving.CatalogService
)

var (
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "Import and search a local D&D 5e reference catalog",
	Long: `Grimoire imports 5etools-style JSON data into a local SQLite catalog
and serves fast full-text search over it, from the terminal or over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(*cobra.Command, []string) { closeServices() },
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "",
		"database directory (default ~/.grimoire/data)")
}

// initServices opens the store and wires the core services.
// Commands that were handed test doubles keep them.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if configStore == nil {
		cfg, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		configStore = cfg
	}

	if importService != nil && searchService != nil && catalogService != nil {
		return nil
	}

	s, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return err
	}
	store = s

	catalog := s.CatalogStore()
	importService = services.NewImportOrchestrator(catalog)
	searchService = services.NewSearchService(s.SearchIndex())
	catalogService = services.NewCatalogService(catalog)
	return nil
}

func closeServices() {
	if store != nil {
		store.Close()
		store = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

var (
	searchKinds   []string
	searchSources []string
	searchLimit   int
	searchOffset  int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the imported catalog",
	Long: `Performs full-text search across every imported entity.

Matches in entity names rank above matches in body text, and each term
also matches by prefix, so partial names work. With no query the
catalog is listed in name order, which pairs well with --kind.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchKinds, "kind", "k", nil,
		"restrict to an entity kind (repeatable, e.g. monster, spell)")
	searchCmd.Flags().StringSliceVarP(&searchSources, "source", "s", nil,
		"restrict to a source book code (repeatable)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	opts := domain.SearchOptions{
		Limit:  searchLimit,
		Offset: searchOffset,
	}
	for _, k := range searchKinds {
		kind, ok := domain.ParseKind(k)
		if !ok {
			return fmt.Errorf("unknown kind %q", k)
		}
		opts.Kinds = append(opts.Kinds, kind)
	}
	opts.Sources = searchSources
	if len(opts.Sources) == 0 && configStore != nil {
		opts.Sources = configStore.GetStringSlice(file.KeyDefaultSources)
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	Kind    string          `json:"kind"`
	Score   float64         `json:"score"`
	Snippet string          `json:"snippet,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, searchResultJSON{
			Name:    r.Entity.Name,
			Source:  r.Entity.Source,
			Kind:    string(r.Entity.Kind),
			Score:   r.Score,
			Snippet: r.Snippet,
			Payload: r.Entity.Payload,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	// Plain tab-separated output when piped, so results compose with
	// grep and friends.
	if !stdoutIsTerminal() {
		for _, r := range results {
			cmd.Printf("%s\t%s\t%s\n", r.Entity.Name, r.Entity.Kind, r.Entity.Source)
		}
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		if r.Score > 0 {
			cmd.Printf("  [%d] %s (%s, %s) %.2f\n",
				i+1, r.Entity.Name, r.Entity.Kind, r.Entity.Source, r.Score)
		} else {
			cmd.Printf("  [%d] %s (%s, %s)\n",
				i+1, r.Entity.Name, r.Entity.Kind, r.Entity.Source)
		}
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
	}
	cmd.Println()
	return nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

var getSource string

var getCmd = &cobra.Command{
	Use:   "get <kind> <name>",
	Short: "Print one entity's full JSON payload",
	Long: `Fetches a single entity by kind and name and prints its original
JSON payload. When the same name exists in several books, use --source
to pick one; otherwise the best search match is returned.`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getSource, "source", "s", "", "source book code")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	kind, ok := domain.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[0])
	}
	name := args[1]

	var entity *domain.Entity
	var err error
	if getSource != "" {
		entity, err = catalogService.Get(cmd.Context(),
			domain.EntityKey{Name: name, Source: getSource, Kind: kind})
	} else {
		entity, err = getByBestMatch(cmd, name, kind)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no %s named %q", kind, name)
		}
		return err
	}

	var pretty json.RawMessage = entity.Payload
	data, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

// getByBestMatch resolves a name without a source by searching and
// taking the first exact name hit.
func getByBestMatch(cmd *cobra.Command, name string, kind domain.Kind) (*domain.Entity, error) {
	if searchService == nil {
		return nil, errors.New("search service not configured")
	}
	results, err := searchService.Search(cmd.Context(), name, domain.SearchOptions{
		Limit: 10,
		Kinds: []domain.Kind{kind},
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if strings.EqualFold(r.Entity.Name, name) {
			return &r.Entity, nil
		}
	}
	return nil, domain.ErrNotFound
}

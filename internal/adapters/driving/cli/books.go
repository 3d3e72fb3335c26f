package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage imported books",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported books",
	Args:  cobra.NoArgs,
	RunE:  runBooksList,
}

var booksDiscoverCmd = &cobra.Command{
	Use:   "discover <data-root>",
	Short: "List importable books at a data root",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksDiscover,
}

var booksRemoveCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a book and everything imported from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksRemove,
}

func init() {
	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksDiscoverCmd)
	booksCmd.AddCommand(booksRemoveCmd)
	rootCmd.AddCommand(booksCmd)
}

func runBooksList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	books, err := catalogService.Books(cmd.Context())
	if err != nil {
		return err
	}
	if len(books) == 0 {
		cmd.Println("No books imported. Run 'grimoire import' first.")
		return nil
	}

	for _, book := range books {
		line := fmt.Sprintf("%-8s %s", book.Code, book.Name)
		if book.Group != "" {
			line += fmt.Sprintf(" [%s]", book.Group)
		}
		if !book.ImportedAt.IsZero() {
			line += " imported " + book.ImportedAt.Local().Format("2006-01-02 15:04")
		}
		cmd.Println(line)
	}
	return nil
}

func runBooksDiscover(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	books, err := importService.Discover(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(books) == 0 {
		cmd.Println("No books found.")
		return nil
	}

	for _, book := range books {
		line := fmt.Sprintf("%-8s %s", book.Code, book.Name)
		if book.Group != "" {
			line += fmt.Sprintf(" [%s]", book.Group)
		}
		if book.Published != "" {
			line += " (" + book.Published + ")"
		}
		cmd.Println(line)
	}
	return nil
}

func runBooksRemove(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	if err := catalogService.RemoveBook(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

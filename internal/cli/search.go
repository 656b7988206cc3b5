package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/booknotion/internal/config"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/googlebooks"
)

// SearchCommand searches Google Books and prints the results
type SearchCommand struct {
	Query  string
	Locale string
	Limit  int
	JSON   bool

	cfg   *config.Config
	books bookService
	out   io.Writer
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(cfg *config.Config) *SearchCommand {
	return &SearchCommand{cfg: cfg, out: os.Stdout}
}

// ParseFlags parses command line flags. Positional arguments form the query
// when -query is not given.
func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	fs.StringVar(&cmd.Query, "query", "", "Title, author or keywords to search for")
	fs.StringVar(&cmd.Locale, "locale", "", "Language restriction (e.g. en, de, or 'default' for the system locale)")
	fs.IntVar(&cmd.Limit, "limit", 10, "Maximum number of results to print (0 prints all)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print results as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search [options] [query]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search Google Books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search dune frank herbert\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -locale de -json -query \"der steppenwolf\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Query == "" {
		cmd.Query = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(cmd.Query) == "" {
		return fmt.Errorf("a search query is required")
	}
	return nil
}

// Run executes the search
func (cmd *SearchCommand) Run() error {
	if cmd.books == nil {
		books, closeBooks, err := openBooks(cmd.cfg)
		if err != nil {
			return err
		}
		defer closeBooks()
		cmd.books = books
	}

	language := ""
	if cmd.Locale != "" {
		language = googlebooks.ResolveLanguage(cmd.Locale, cmd.cfg.GoogleBooks.SystemLocale)
	}

	ctx, cancel := commandContext(cmd.cfg.HTTPClient.Timeout)
	defer cancel()

	books, err := cmd.books.Search(ctx, cmd.Query, language)
	if err != nil {
		return err
	}

	if cmd.Limit > 0 && len(books) > cmd.Limit {
		books = books[:cmd.Limit]
	}

	if cmd.JSON {
		encoder := json.NewEncoder(cmd.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(books)
	}

	if len(books) == 0 {
		fmt.Fprintln(cmd.out, "No books found.")
		return nil
	}

	for i, book := range books {
		printBook(cmd.out, i+1, book)
	}
	return nil
}

func printBook(out io.Writer, position int, book entities.Book) {
	fmt.Fprintf(out, "%2d. %s\n", position, book.Title)

	details := []string{}
	for _, value := range []string{book.Author, book.PublishDate, book.Publisher, firstNonEmpty(book.ISBN13, book.ISBN10)} {
		if value != "" {
			details = append(details, value)
		}
	}
	if len(details) > 0 {
		fmt.Fprintf(out, "    %s\n", strings.Join(details, " | "))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

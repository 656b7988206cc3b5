package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/booknotion/internal/config"
	"github.com/mrlokans/booknotion/internal/services"
)

// AddCommand searches Google Books and adds one result to Notion
type AddCommand struct {
	Query string
	Index int
	Yes   bool

	cfg   *config.Config
	books bookService
	in    io.Reader
	out   io.Writer
}

// NewAddCommand creates a new AddCommand
func NewAddCommand(cfg *config.Config) *AddCommand {
	return &AddCommand{cfg: cfg, in: os.Stdin, out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	fs.StringVar(&cmd.Query, "query", "", "Title, author or keywords to search for")
	fs.IntVar(&cmd.Index, "index", 1, "Which search result to add (1 is the best match)")
	fs.BoolVar(&cmd.Yes, "yes", false, "Add without asking for confirmation")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add [options] [query]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search Google Books and add a result to the configured Notion database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Add the best match after confirming:\n")
		fmt.Fprintf(os.Stderr, "  %s add the left hand of darkness\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Add the third result without a prompt:\n")
		fmt.Fprintf(os.Stderr, "  %s add -index 3 -yes -query dune\n", os.Args[0])
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
	if cmd.Index < 1 {
		return fmt.Errorf("-index must be 1 or greater, got %d", cmd.Index)
	}
	return nil
}

// Run executes the add
func (cmd *AddCommand) Run() error {
	if cmd.books == nil {
		books, closeBooks, err := openBooks(cmd.cfg)
		if err != nil {
			return err
		}
		defer closeBooks()
		cmd.books = books
	}

	ctx, cancel := commandContext(cmd.cfg.HTTPClient.Timeout)
	defer cancel()

	books, err := cmd.books.Search(ctx, cmd.Query, "")
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return services.ErrNoBooksFound
	}
	if cmd.Index > len(books) {
		return fmt.Errorf("-index %d is out of range, the search returned %d books", cmd.Index, len(books))
	}

	book := books[cmd.Index-1]
	fmt.Fprintln(cmd.out, services.ConfirmationMessage(book))

	if !cmd.Yes && !cmd.confirm() {
		fmt.Fprintln(cmd.out, "Cancelled.")
		return nil
	}

	result, err := cmd.books.AddBook(ctx, book)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.out, services.AddedMessage(book, result))
	return nil
}

func (cmd *AddCommand) confirm() bool {
	fmt.Fprint(cmd.out, "Add to Notion? [y/N]: ")

	answer, err := bufio.NewReader(cmd.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

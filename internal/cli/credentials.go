package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mrlokans/booknotion/internal/config"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/entrypoint"
)

type secretStore interface {
	Set(name, value string) error
	Get(name string) (string, error)
	Names() ([]string, error)
	Delete(name string) error
	Close() error
}

// CredentialsCommand manages secrets in the encrypted credential store
type CredentialsCommand struct {
	Action string
	Name   string
	Value  string
	Reveal bool

	cfg   *config.Config
	store secretStore
	in    io.Reader
	out   io.Writer
}

// NewCredentialsCommand creates a new CredentialsCommand
func NewCredentialsCommand(cfg *config.Config) *CredentialsCommand {
	return &CredentialsCommand{cfg: cfg, in: os.Stdin, out: os.Stdout}
}

// ParseFlags parses "<action> [name] [value]" followed by options
func (cmd *CredentialsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("credentials", flag.ExitOnError)

	fs.BoolVar(&cmd.Reveal, "reveal", false, "Print the full value for 'get' instead of a masked one")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s credentials <set|get|delete|list> [name] [value] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage encrypted credentials. Known names:\n")
		for _, name := range entities.KnownSecrets {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		fmt.Fprintf(os.Stderr, "\nWhen 'set' is given no value, it is read from standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s credentials set notion_database_id 1f2e3d4c5b6a\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  echo \"$TOKEN\" | %s credentials set notion_api_key\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s credentials list\n", os.Args[0])
	}

	if len(args) == 0 {
		fs.Usage()
		return fmt.Errorf("an action is required")
	}
	cmd.Action = args[0]

	positional := []string{}
	rest := args[1:]
	for len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		positional = append(positional, rest[0])
		rest = rest[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	positional = append(positional, fs.Args()...)

	switch cmd.Action {
	case "list":
		return nil
	case "set", "get", "delete":
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}

	if len(positional) == 0 {
		return fmt.Errorf("%s requires a credential name", cmd.Action)
	}
	cmd.Name = positional[0]
	if !slices.Contains(entities.KnownSecrets, cmd.Name) {
		return fmt.Errorf("unknown credential %q, expected one of: %s", cmd.Name, strings.Join(entities.KnownSecrets, ", "))
	}
	if cmd.Action == "set" && len(positional) > 1 {
		cmd.Value = positional[1]
	}
	return nil
}

// Run executes the action
func (cmd *CredentialsCommand) Run() error {
	if cmd.store == nil {
		store, err := entrypoint.OpenCredentialStore(cmd.cfg)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		cmd.store = store
	}
	defer cmd.store.Close()

	switch cmd.Action {
	case "set":
		value := cmd.Value
		if value == "" {
			var err error
			if value, err = readLine(cmd.in); err != nil {
				return err
			}
		}
		if value == "" {
			return fmt.Errorf("refusing to store an empty value for %s", cmd.Name)
		}
		if err := cmd.store.Set(cmd.Name, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "Saved %s\n", cmd.Name)

	case "get":
		value, err := cmd.store.Get(cmd.Name)
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("%s is not stored", cmd.Name)
		}
		if !cmd.Reveal {
			value = mask(value)
		}
		fmt.Fprintln(cmd.out, value)

	case "delete":
		if err := cmd.store.Delete(cmd.Name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "Deleted %s\n", cmd.Name)

	case "list":
		names, err := cmd.store.Names()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.out, "No credentials stored.")
		}
		for _, name := range names {
			fmt.Fprintln(cmd.out, name)
		}
	}
	return nil
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// mask keeps the last four characters of values long enough to hide the rest.
func mask(value string) string {
	runes := []rune(value)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

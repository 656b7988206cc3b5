package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/booknotion/internal/config"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/entrypoint"
	"github.com/mrlokans/booknotion/internal/notion"
)

// bookService is the part of services.BookService the commands use.
type bookService interface {
	Search(ctx context.Context, query, language string) ([]entities.Book, error)
	AddBook(ctx context.Context, book entities.Book) (*notion.AddBookResult, error)
}

// openBooks wires the book service from configuration. The returned func
// releases it.
func openBooks(cfg *config.Config) (bookService, func(), error) {
	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.Books, func() { app.Close() }, nil
}

// commandContext is cancelled on Ctrl-C or after timeout.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

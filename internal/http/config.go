package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/notion"
	"github.com/mrlokans/booknotion/internal/services"
)

// BookFinder searches books.
type BookFinder interface {
	Search(ctx context.Context, query, language string) ([]entities.Book, error)
	BestMatch(ctx context.Context, query string) (entities.Book, error)
}

// NotionWriter adds books to Notion and reports the column mapping.
type NotionWriter interface {
	AddBook(ctx context.Context, book entities.Book) (*notion.AddBookResult, error)
	SearchAndAdd(ctx context.Context, query string) (*services.SearchAndAddResult, error)
	InspectSchema(ctx context.Context) (notion.MappingResult, error)
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping() error
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books  BookFinder
	Notion NotionWriter

	// Optional, reported by /health
	CredentialStore  Pinger
	NotionConfigured bool

	// Used to resolve the "default" locale per request
	SystemLocale string

	// Served at /metrics when set
	Metrics http.Handler

	// Upper bound for handlers that call upstream services
	RequestTimeout time.Duration

	// Application info
	Version string
}

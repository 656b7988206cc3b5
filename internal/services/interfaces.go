package services

import (
	"context"
	"time"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/googlebooks"
	"github.com/mrlokans/booknotion/internal/notion"
)

// BookSearcher finds books by free-text query.
type BookSearcher interface {
	Search(ctx context.Context, query string, opts googlebooks.SearchOptions) ([]entities.Book, error)
}

// BookAdder writes one book into the destination database.
type BookAdder interface {
	AddBook(ctx context.Context, book entities.Book) (*notion.AddBookResult, error)
}

// SchemaInspector reports how the destination columns map onto book fields.
type SchemaInspector interface {
	InspectSchema(ctx context.Context) (notion.MappingResult, error)
}

// Destination is everything the book service needs from Notion.
type Destination interface {
	BookAdder
	SchemaInspector
}

// Observer is notified of every search and add attempt.
type Observer interface {
	ObserveSearch(results int, err error, elapsed time.Duration)
	ObserveAdd(err error, elapsed time.Duration)
}

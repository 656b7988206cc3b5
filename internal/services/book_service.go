package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/googlebooks"
	"github.com/mrlokans/booknotion/internal/notion"
)

// ErrNoBooksFound is returned by BestMatch and SearchAndAdd when a query has no results.
var ErrNoBooksFound = errors.New("no books found matching the query")

// SearchAndAddResult is the outcome of adding the best match for a query.
type SearchAndAddResult struct {
	Book    entities.Book         `json:"book"`
	Result  *notion.AddBookResult `json:"result"`
	Message string                `json:"message"`
}

// BookService ties the book search to the Notion destination.
type BookService struct {
	searcher    BookSearcher
	destination Destination
	language    string
	observer    Observer
}

// NewBookService creates a BookService. destination may be nil when Notion is
// not configured, in which case adds fail with a ConfigurationError.
func NewBookService(searcher BookSearcher, destination Destination, language string) *BookService {
	return &BookService{
		searcher:    searcher,
		destination: destination,
		language:    language,
	}
}

// SetObserver sets the observer notified of searches and adds (optional).
func (s *BookService) SetObserver(observer Observer) {
	s.observer = observer
}

// Search runs a book search. An empty language uses the service default.
func (s *BookService) Search(ctx context.Context, query, language string) ([]entities.Book, error) {
	query = strings.TrimSpace(query)
	if language == "" {
		language = s.language
	}

	start := time.Now()
	books, err := s.searcher.Search(ctx, query, googlebooks.SearchOptions{Language: language})
	if s.observer != nil {
		s.observer.ObserveSearch(len(books), err, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	log.Printf("[SEARCH] %q (%s): %d results", query, language, len(books))
	return books, nil
}

// BestMatch returns the first search result for query.
func (s *BookService) BestMatch(ctx context.Context, query string) (entities.Book, error) {
	books, err := s.Search(ctx, query, "")
	if err != nil {
		return entities.Book{}, err
	}
	if len(books) == 0 {
		return entities.Book{}, ErrNoBooksFound
	}
	return books[0], nil
}

// AddBook adds book to the configured Notion database.
func (s *BookService) AddBook(ctx context.Context, book entities.Book) (*notion.AddBookResult, error) {
	if s.destination == nil {
		return nil, notConfigured()
	}
	return s.add(ctx, book)
}

// SearchAndAdd adds the best match for query to Notion.
func (s *BookService) SearchAndAdd(ctx context.Context, query string) (*SearchAndAddResult, error) {
	if s.destination == nil {
		return nil, notConfigured()
	}

	book, err := s.BestMatch(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := s.add(ctx, book)
	if err != nil {
		return nil, err
	}

	return &SearchAndAddResult{
		Book:    book,
		Result:  result,
		Message: AddedMessage(book, result),
	}, nil
}

// InspectSchema reports the column mapping of the configured database.
func (s *BookService) InspectSchema(ctx context.Context) (notion.MappingResult, error) {
	if s.destination == nil {
		return notion.MappingResult{}, notConfigured()
	}
	return s.destination.InspectSchema(ctx)
}

func (s *BookService) add(ctx context.Context, book entities.Book) (*notion.AddBookResult, error) {
	start := time.Now()
	result, err := s.destination.AddBook(ctx, book)
	if s.observer != nil {
		s.observer.ObserveAdd(err, time.Since(start))
	}
	return result, err
}

func notConfigured() error {
	return &apierrors.ConfigurationError{
		Message: "Notion API key or database ID is not configured",
	}
}

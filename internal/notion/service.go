package notion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/entities"
)

// Gateway is the destination API used by Service.
type Gateway interface {
	FetchDatabase(ctx context.Context) (*DatabaseSchema, error)
	CreatePage(ctx context.Context, page *PageRequest) (*PageResponse, error)
}

// Recorder keeps a copy of every submitted page.
type Recorder interface {
	SaveJSON(data any) (string, error)
}

// AddBookResult describes a created page and which fields made it in.
type AddBookResult struct {
	Response *PageResponse `json:"response"`
	Added    []string      `json:"added"`
	Missing  []string      `json:"missing"`
}

// Service adds books to a Notion database.
type Service struct {
	gateway    Gateway
	databaseID string
	recorder   Recorder
}

// NewService creates a Service writing into databaseID through gateway.
func NewService(gateway Gateway, databaseID string) *Service {
	return &Service{
		gateway:    gateway,
		databaseID: databaseID,
	}
}

// SetRecorder sets the submission recorder (optional).
func (s *Service) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// InspectSchema fetches the database schema and reports how it maps.
func (s *Service) InspectSchema(ctx context.Context) (MappingResult, error) {
	schema, err := s.gateway.FetchDatabase(ctx)
	if err != nil {
		return MappingResult{}, err
	}
	return BuildPropertyMapping(schema.Properties), nil
}

// AddBook creates a page for book. The schema is fetched on every call, and the
// page is only created once the schema has a title column.
func (s *Service) AddBook(ctx context.Context, book entities.Book) (*AddBookResult, error) {
	schema, err := s.gateway.FetchDatabase(ctx)
	if err != nil {
		return nil, err
	}

	mapping := BuildPropertyMapping(schema.Properties)
	if _, ok := mapping.Mapping[PropertyTitle]; !ok {
		return nil, &apierrors.ValidationError{
			Message: "Your Notion database must contain at least one title property.",
		}
	}

	payload := BuildPayload(book, mapping.Mapping, s.databaseID)

	response, err := s.gateway.CreatePage(ctx, &payload)
	if err != nil {
		return nil, err
	}

	log.Printf("[NOTION] Created page %s for %q", response.ID, book.Title)

	s.record(book, &payload, response)

	return &AddBookResult{
		Response: response,
		Added:    addedProperties(&payload, mapping.Mapping),
		Missing:  mapping.Missing,
	}, nil
}

type submission struct {
	Book     entities.Book `json:"book"`
	Payload  *PageRequest  `json:"payload"`
	Response *PageResponse `json:"response"`
}

func (s *Service) record(book entities.Book, payload *PageRequest, response *PageResponse) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.SaveJSON(submission{Book: book, Payload: payload, Response: response}); err != nil {
		log.Printf("[NOTION ERROR] Failed to record submission for page %s: %v", response.ID, err)
	}
}

// addedProperties lists, in field-table order, the labels of mapped fields
// whose submitted value is non-empty.
func addedProperties(payload *PageRequest, mapping PropertyMapping) []string {
	added := []string{}
	for _, requirement := range RequiredProperties {
		column, ok := mapping[requirement.Key]
		if !ok {
			continue
		}
		value, ok := payload.Properties[column]
		if !ok || value.IsEmpty() {
			continue
		}
		added = append(added, requirement.Label)
	}
	return added
}

// BuildSuccessMessage summarizes a result as "ID:", "Added:" and "Skipped:" lines.
func BuildSuccessMessage(result *AddBookResult) string {
	lines := []string{fmt.Sprintf("ID: %s", result.Response.ID)}

	if len(result.Added) > 0 {
		lines = append(lines, fmt.Sprintf("Added: %s", strings.Join(result.Added, ", ")))
	}
	if len(result.Missing) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped: %s", strings.Join(result.Missing, ", ")))
	}

	return strings.Join(lines, "\n")
}

package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/entities"
)

type fakeGateway struct {
	columns     []string
	fetchErr    error
	createErr   error
	fetchCalls  int
	createCalls int
	created     *PageRequest
}

func (g *fakeGateway) FetchDatabase(ctx context.Context) (*DatabaseSchema, error) {
	g.fetchCalls++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return &DatabaseSchema{ID: "db", Properties: g.columns}, nil
}

func (g *fakeGateway) CreatePage(ctx context.Context, page *PageRequest) (*PageResponse, error) {
	g.createCalls++
	g.created = page
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &PageResponse{ID: "page-1", Parent: page.Parent}, nil
}

type fakeRecorder struct {
	saved []any
	err   error
}

func (r *fakeRecorder) SaveJSON(data any) (string, error) {
	r.saved = append(r.saved, data)
	return "audit.json", r.err
}

func sampleBook() entities.Book {
	return entities.Book{
		Title:       "Dune",
		Author:      "A, B, C",
		Authors:     []string{"A", "B", "C"},
		Category:    "Fiction, Classic",
		Categories:  []string{"Fiction", "Classic"},
		TotalPage:   entities.PageCountFromInt(412),
		ISBN13:      "9780441172719",
		PublishDate: "1990",
	}
}

func TestService_AddBook(t *testing.T) {
	gateway := &fakeGateway{columns: []string{"Name", "Author", "Tag"}}
	service := NewService(gateway, "db-42")

	result, err := service.AddBook(context.Background(), sampleBook())
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.fetchCalls)
	assert.Equal(t, 1, gateway.createCalls)
	assert.Equal(t, "db-42", gateway.created.Parent.DatabaseID)
	assert.Equal(t, []string{"Fiction", "Classic"}, gateway.created.Properties["Tag"].Names)

	assert.Equal(t, "page-1", result.Response.ID)
	assert.Equal(t, []string{"Name", "Author", "Tag"}, result.Added)
	assert.Equal(t, []string{"Year", "Publisher", "ISBN", "Page Count", "Reading Status"}, result.Missing)
}

func TestService_AddBook_EmptyValuesAreNotReportedAsAdded(t *testing.T) {
	gateway := &fakeGateway{columns: []string{"Name", "Author", "Publisher", "Pages", "Status"}}

	result, err := NewService(gateway, "db").AddBook(context.Background(), entities.Book{Title: "Untitled Notes"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Reading Status"}, result.Added)
	assert.Contains(t, gateway.created.Properties, "Publisher")
}

func TestService_AddBook_MissingTitleColumn(t *testing.T) {
	gateway := &fakeGateway{columns: []string{"Author", "Tag"}}

	_, err := NewService(gateway, "db").AddBook(context.Background(), sampleBook())
	require.Error(t, err)

	var validation *apierrors.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Equal(t, 1, gateway.fetchCalls)
	assert.Equal(t, 0, gateway.createCalls, "create-page must not be called without a title column")
}

func TestService_AddBook_SchemaFetchFails(t *testing.T) {
	gateway := &fakeGateway{fetchErr: &apierrors.TransportError{Service: "notion", StatusCode: 404, Message: "Could not find database"}}

	_, err := NewService(gateway, "db").AddBook(context.Background(), sampleBook())
	require.Error(t, err)

	var transport *apierrors.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, 404, transport.StatusCode)
	assert.Equal(t, 0, gateway.createCalls)
}

func TestService_AddBook_CreateFailsIsPropagated(t *testing.T) {
	createErr := &apierrors.TransportError{Service: "notion", StatusCode: 400}
	gateway := &fakeGateway{columns: []string{"Name"}, createErr: createErr}
	recorder := &fakeRecorder{}
	service := NewService(gateway, "db")
	service.SetRecorder(recorder)

	_, err := service.AddBook(context.Background(), sampleBook())
	assert.Same(t, createErr, err)
	assert.Empty(t, recorder.saved)
}

func TestService_AddBook_RecordsSubmission(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	service := NewService(&fakeGateway{columns: []string{"Name"}}, "db")
	service.SetRecorder(recorder)

	result, err := service.AddBook(context.Background(), sampleBook())
	require.NoError(t, err, "recorder failures must not fail the add")
	assert.Equal(t, "page-1", result.Response.ID)

	require.Len(t, recorder.saved, 1)
	sub, ok := recorder.saved[0].(submission)
	require.True(t, ok)
	assert.Equal(t, "Dune", sub.Book.Title)
	assert.Equal(t, "page-1", sub.Response.ID)
}

func TestService_InspectSchema(t *testing.T) {
	gateway := &fakeGateway{columns: []string{"Title", "Writers"}}

	result, err := NewService(gateway, "db").InspectSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Title", result.Mapping[PropertyTitle])
	assert.Equal(t, "Writers", result.Mapping[PropertyAuthors])
	assert.Equal(t, 0, gateway.createCalls)
}

func TestBuildSuccessMessage(t *testing.T) {
	tests := []struct {
		name     string
		result   *AddBookResult
		expected string
	}{
		{
			name:     "added and skipped",
			result:   &AddBookResult{Response: &PageResponse{ID: "p1"}, Added: []string{"Name", "Author"}, Missing: []string{"Year"}},
			expected: "ID: p1\nAdded: Name, Author\nSkipped: Year",
		},
		{
			name:     "nothing skipped",
			result:   &AddBookResult{Response: &PageResponse{ID: "p2"}, Added: []string{"Name"}},
			expected: "ID: p2\nAdded: Name",
		},
		{
			name:     "id only",
			result:   &AddBookResult{Response: &PageResponse{ID: "p3"}},
			expected: "ID: p3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildSuccessMessage(tt.result))
		})
	}
}

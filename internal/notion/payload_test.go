package notion

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/utils"
)

func fullMapping() PropertyMapping {
	return BuildPropertyMapping([]string{
		"Name", "Author", "Year", "Publisher", "ISBN", "Page Count", "Tag", "Reading Status",
	}).Mapping
}

func TestBuildPayload_AllFields(t *testing.T) {
	book := entities.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Authors:     []string{"Frank Herbert"},
		Categories:  []string{"Fiction", "Classic"},
		Publisher:   "Ace",
		PublishDate: "August 1990",
		TotalPage:   entities.PageCountFromInt(412),
		ISBN13:      "9780441172719",
		ISBN10:      "0441172717",
		Description: "Set on the desert planet Arrakis.",
	}

	payload := BuildPayload(book, fullMapping(), "db-1")

	assert.Equal(t, "db-1", payload.Parent.DatabaseID)
	assert.Equal(t, TitleValue("Dune"), payload.Properties["Name"])
	assert.Equal(t, RichTextValue("Frank Herbert"), payload.Properties["Author"])
	assert.Equal(t, RichTextValue("Ace"), payload.Properties["Publisher"])
	assert.Equal(t, RichTextValue("9780441172719"), payload.Properties["ISBN"])
	assert.Equal(t, []string{"Fiction", "Classic"}, payload.Properties["Tag"].Names)
	assert.Equal(t, SelectValue(DefaultReadingStatus), payload.Properties["Reading Status"])

	year := payload.Properties["Year"]
	require.NotNil(t, year.Number)
	assert.Equal(t, 1990, *year.Number)

	pages := payload.Properties["Page Count"]
	require.NotNil(t, pages.Number)
	assert.Equal(t, 412, *pages.Number)

	require.Len(t, payload.Children, 1)
	assert.Equal(t, "Set on the desert planet Arrakis.", payload.Children[0].Paragraph.RichText[0].Text.Content)
	assert.Nil(t, payload.Cover)
}

func TestBuildPayload_OnlyMappedColumns(t *testing.T) {
	mapping := BuildPropertyMapping([]string{"Name", "Author", "Tag"}).Mapping

	payload := BuildPayload(entities.Book{Title: "Dune", Categories: []string{"Fiction"}}, mapping, "db")

	assert.Len(t, payload.Properties, 3)
	assert.Contains(t, payload.Properties, "Name")
	assert.Contains(t, payload.Properties, "Author")
	assert.Contains(t, payload.Properties, "Tag")
}

func TestBuildPayload_PublishedDate(t *testing.T) {
	tests := []struct {
		name        string
		column      string
		publishDate string
		wantType    PropertyType
		wantYear    *int
		wantDate    *string
	}{
		{name: "year column with full date", column: "Year", publishDate: "2004-05-01", wantType: PropertyTypeNumber, wantYear: intPtr(2004)},
		{name: "year column is case-insensitive", column: "YEAR", publishDate: "1965", wantType: PropertyTypeNumber, wantYear: intPtr(1965)},
		{name: "year column without digits", column: "Year", publishDate: "unknown", wantType: PropertyTypeNumber},
		{name: "year column with empty date", column: "year", publishDate: "", wantType: PropertyTypeNumber},
		{name: "date column", column: "Published Date", publishDate: "2004-05", wantType: PropertyTypeDate, wantDate: strPtr("2004-05")},
		{name: "date column with empty date", column: "Publication Date", publishDate: "", wantType: PropertyTypeDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping := PropertyMapping{PropertyTitle: "Name", PropertyPublishedDate: tt.column}
			payload := BuildPayload(entities.Book{PublishDate: tt.publishDate}, mapping, "db")

			value := payload.Properties[tt.column]
			assert.Equal(t, tt.wantType, value.Type)
			assert.Equal(t, tt.wantYear, value.Number)
			assert.Equal(t, tt.wantDate, value.Date)
		})
	}
}

func TestBuildPayload_ISBNFallback(t *testing.T) {
	mapping := PropertyMapping{PropertyISBN: "ISBN"}

	tests := []struct {
		name     string
		book     entities.Book
		expected string
	}{
		{"isbn13 first", entities.Book{ISBN13: "13", ISBN10: "10", ISBN: "generic"}, "13"},
		{"then isbn10", entities.Book{ISBN10: "10", ISBN: "generic"}, "10"},
		{"then generic", entities.Book{ISBN: "generic"}, "generic"},
		{"then empty", entities.Book{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := BuildPayload(tt.book, mapping, "db")
			assert.Equal(t, tt.expected, payload.Properties["ISBN"].Text)
		})
	}
}

func TestBuildPayload_PageCount(t *testing.T) {
	mapping := PropertyMapping{PropertyPageCount: "Pages"}

	tests := []struct {
		name     string
		count    entities.PageCount
		expected *int
	}{
		{"number", entities.PageCountFromInt(412), intPtr(412)},
		{"numeric string", entities.PageCountFromString("320"), intPtr(320)},
		{"padded numeric string", entities.PageCountFromString(" 96 "), intPtr(96)},
		{"not a number", entities.PageCountFromString("not-a-number"), nil},
		{"zero", entities.PageCountFromInt(0), nil},
		{"absent", entities.PageCount{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload PageRequest
			require.NotPanics(t, func() {
				payload = BuildPayload(entities.Book{TotalPage: tt.count}, mapping, "db")
			})
			value := payload.Properties["Pages"]
			assert.Equal(t, PropertyTypeNumber, value.Type)
			assert.Equal(t, tt.expected, value.Number)
		})
	}
}

func TestBuildPayload_Categories(t *testing.T) {
	mapping := PropertyMapping{PropertyCategories: "Tags"}

	payload := BuildPayload(entities.Book{}, mapping, "db")
	value := payload.Properties["Tags"]
	assert.Equal(t, PropertyTypeMultiSelect, value.Type)
	assert.Empty(t, value.Names)

	data, err := json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"multi_select": []}`, string(data))
}

func TestBuildPayload_Cover(t *testing.T) {
	tests := []struct {
		name     string
		book     entities.Book
		expected string
	}{
		{"insecure cover is upgraded", entities.Book{CoverURL: "http://example.com/a.png"}, "https://example.com/a.png"},
		{"small cover preferred", entities.Book{CoverURL: "https://example.com/big.png", CoverSmallURL: "https://example.com/small.png"}, "https://example.com/small.png"},
		{"empty cover omitted", entities.Book{CoverURL: ""}, ""},
		{"non-http cover omitted", entities.Book{CoverURL: "ftp://example.com/a.png"}, ""},
		{"relative cover omitted", entities.Book{CoverSmallURL: "/covers/a.png"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := BuildPayload(tt.book, PropertyMapping{PropertyTitle: "Name"}, "db")
			if tt.expected == "" {
				assert.Nil(t, payload.Cover)
				return
			}
			require.NotNil(t, payload.Cover)
			assert.Equal(t, "external", payload.Cover.Type)
			assert.Equal(t, tt.expected, payload.Cover.External.URL)
		})
	}
}

func TestBuildPayload_Description(t *testing.T) {
	t.Run("empty description uses placeholder block", func(t *testing.T) {
		payload := BuildPayload(entities.Book{}, PropertyMapping{}, "db")

		require.Len(t, payload.Children, 1)
		assert.Equal(t, utils.EmptyTextPlaceholder, payload.Children[0].Paragraph.RichText[0].Text.Content)
	})

	t.Run("blank description longer than the limit uses placeholder block", func(t *testing.T) {
		payload := BuildPayload(entities.Book{Description: strings.Repeat("\n", 2001)}, PropertyMapping{}, "db")

		require.Len(t, payload.Children, 1)
		assert.Equal(t, utils.EmptyTextPlaceholder, payload.Children[0].Paragraph.RichText[0].Text.Content)
	})

	t.Run("long description is split into blocks within the limit", func(t *testing.T) {
		description := strings.Repeat("The spice must flow across Arrakis. ", 200)
		payload := BuildPayload(entities.Book{Description: description}, PropertyMapping{}, "db")

		require.Greater(t, len(payload.Children), 1)
		for _, block := range payload.Children {
			assert.Equal(t, "block", block.Object)
			assert.Equal(t, "paragraph", block.Type)
			require.Len(t, block.Paragraph.RichText, 1)
			assert.LessOrEqual(t, utf8.RuneCountInString(block.Paragraph.RichText[0].Text.Content), utils.DefaultChunkLength)
		}
	})
}

func TestPageRequest_JSON(t *testing.T) {
	book := entities.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		PublishDate: "1965-08-01",
		TotalPage:   entities.PageCountFromString("abc"),
		CoverURL:    "http://books.google.com/cover.png",
	}
	mapping := PropertyMapping{
		PropertyTitle:         "Name",
		PropertyAuthors:       "Author",
		PropertyPublishedDate: "Published Date",
		PropertyPageCount:     "Pages",
		PropertyReadingStatus: "Status",
	}

	data, err := json.Marshal(BuildPayload(book, mapping, "db-1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"parent": {"database_id": "db-1"},
		"properties": {
			"Name": {"title": [{"text": {"content": "Dune"}}]},
			"Author": {"rich_text": [{"text": {"content": "Frank Herbert"}}]},
			"Published Date": {"date": {"start": "1965-08-01"}},
			"Pages": {"number": null},
			"Status": {"select": {"name": "Not started"}}
		},
		"children": [{
			"object": "block",
			"type": "paragraph",
			"paragraph": {"rich_text": [{"type": "text", "text": {"content": "No description available."}}]}
		}],
		"cover": {"type": "external", "external": {"url": "https://books.google.com/cover.png"}}
	}`, string(data))
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

package notion

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/utils"
)

// DefaultReadingStatus is set on every new page that has a status column.
const DefaultReadingStatus = "Not started"

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// BuildPayload converts a book into a create-page request for the mapped
// columns. It does no I/O.
func BuildPayload(book entities.Book, mapping PropertyMapping, databaseID string) PageRequest {
	properties := make(map[string]PropertyValue)

	add := func(key string, value PropertyValue) {
		column, ok := mapping[key]
		if !ok || column == "" {
			return
		}
		properties[column] = value
	}

	add(PropertyTitle, TitleValue(book.Title))
	add(PropertyAuthors, RichTextValue(book.Author))
	if column, ok := mapping[PropertyPublishedDate]; ok {
		add(PropertyPublishedDate, publishedDateValue(book.PublishDate, column))
	}
	add(PropertyPublisher, RichTextValue(book.Publisher))
	add(PropertyISBN, RichTextValue(isbnValue(book)))
	add(PropertyPageCount, NumberValue(pageCountValue(book.TotalPage)))
	add(PropertyCategories, MultiSelectValue(book.Categories))
	add(PropertyReadingStatus, SelectValue(DefaultReadingStatus))

	chunks := utils.SplitText(book.Description, utils.DefaultChunkLength)
	children := make([]Block, 0, len(chunks))
	for _, chunk := range chunks {
		children = append(children, paragraphBlock(chunk))
	}

	payload := PageRequest{
		Parent:     Parent{DatabaseID: databaseID},
		Properties: properties,
		Children:   children,
	}

	if url := coverURL(book); url != "" {
		payload.Cover = &Cover{
			Type:     "external",
			External: ExternalFile{URL: url},
		}
	}

	return payload
}

// publishedDateValue stores a year number when the column is called "Year",
// and a date otherwise.
func publishedDateValue(publishDate, column string) PropertyValue {
	if strings.EqualFold(column, "year") {
		match := yearPattern.FindStringSubmatch(publishDate)
		if match == nil {
			return NumberValue(nil)
		}
		year, err := strconv.Atoi(match[1])
		if err != nil {
			return NumberValue(nil)
		}
		return NumberValue(&year)
	}

	if publishDate == "" {
		return DateValue(nil)
	}
	return DateValue(&publishDate)
}

func isbnValue(book entities.Book) string {
	for _, isbn := range []string{book.ISBN13, book.ISBN10, book.ISBN} {
		if isbn != "" {
			return isbn
		}
	}
	return ""
}

// pageCountValue returns nil for absent, zero or unparseable counts.
func pageCountValue(count entities.PageCount) *int {
	if n, ok := count.Number(); ok {
		if n == 0 {
			return nil
		}
		return &n
	}

	if text, ok := count.Text(); ok {
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n == 0 {
			return nil
		}
		return &n
	}

	return nil
}

// coverURL upgrades the preferred thumbnail to https and drops anything that
// still is not an https URL; Notion only accepts externally hosted https files.
func coverURL(book entities.Book) string {
	url := book.CoverSmallURL
	if url == "" {
		url = book.CoverURL
	}
	if strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}

	if !strings.HasPrefix(url, "https://") {
		return ""
	}
	return url
}

package notion

import (
	"strings"
)

// Logical fields a book can fill in a destination database.
const (
	PropertyTitle         = "Title"
	PropertyAuthors       = "Authors"
	PropertyPublishedDate = "Published Date"
	PropertyPublisher     = "Publisher"
	PropertyISBN          = "ISBN"
	PropertyPageCount     = "Page Count"
	PropertyCategories    = "Categories"
	PropertyReadingStatus = "Reading Status"
)

// PropertyRequirement identifies a logical field by a human-readable label and
// the column names accepted for it. Names compare case-insensitively.
type PropertyRequirement struct {
	Key          string
	Label        string
	Alternatives []string
}

func (r PropertyRequirement) matches(column string) bool {
	if strings.EqualFold(column, r.Label) {
		return true
	}
	for _, alt := range r.Alternatives {
		if strings.EqualFold(column, alt) {
			return true
		}
	}
	return false
}

// RequiredProperties is the fixed field table, in reporting order.
var RequiredProperties = []PropertyRequirement{
	{Key: PropertyTitle, Label: "Name", Alternatives: []string{"Title", "Book Title", "Book Name"}},
	{Key: PropertyAuthors, Label: "Author", Alternatives: []string{"Authors", "Author", "Writer", "Writers"}},
	{Key: PropertyPublishedDate, Label: "Year", Alternatives: []string{"Published Date", "Publish Date", "Publication Date", "Date Published", "Year"}},
	{Key: PropertyPublisher, Label: "Publisher", Alternatives: []string{"Publisher", "Publishing House"}},
	{Key: PropertyISBN, Label: "ISBN", Alternatives: []string{"ISBN", "ISBN-13", "ISBN-10"}},
	{Key: PropertyPageCount, Label: "Page Count", Alternatives: []string{"Page Count", "Pages", "Length"}},
	{Key: PropertyCategories, Label: "Tag", Alternatives: []string{"Categories", "Tags", "Genre", "Genres", "Category"}},
	{Key: PropertyReadingStatus, Label: "Reading Status", Alternatives: []string{"Reading Status", "Status", "Read Status"}},
}

// PropertyMapping maps a logical field key to the destination column name.
type PropertyMapping map[string]string

// MappingResult is the outcome of matching a schema against RequiredProperties.
// Every requirement appears either in Mapping (by key) or in Missing (by label).
type MappingResult struct {
	Mapping PropertyMapping `json:"mapping"`
	Missing []string        `json:"missing"`
}

// BuildPropertyMapping picks, for each requirement, the first column (in the
// given order) whose name equals the label or an alternative.
func BuildPropertyMapping(columns []string) MappingResult {
	result := MappingResult{
		Mapping: PropertyMapping{},
		Missing: []string{},
	}

	for _, requirement := range RequiredProperties {
		column, ok := findColumn(columns, requirement)
		if !ok {
			result.Missing = append(result.Missing, requirement.Label)
			continue
		}
		result.Mapping[requirement.Key] = column
	}

	return result
}

func findColumn(columns []string, requirement PropertyRequirement) (string, bool) {
	for _, column := range columns {
		if requirement.matches(column) {
			return column, true
		}
	}
	return "", false
}

// DisplayName returns the label shown to users for a logical field key.
func DisplayName(key string) string {
	for _, requirement := range RequiredProperties {
		if requirement.Key == key {
			return requirement.Label
		}
	}
	return key
}

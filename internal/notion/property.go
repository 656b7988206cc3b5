package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PropertyType string

const (
	PropertyTypeTitle       PropertyType = "title"
	PropertyTypeRichText    PropertyType = "rich_text"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeMultiSelect PropertyType = "multi_select"
	PropertyTypeSelect      PropertyType = "select"
)

// PropertyValue is one typed page property. Number and Date may be nil, which
// is sent to Notion as an explicit null.
type PropertyValue struct {
	Type   PropertyType
	Text   string   // title, rich_text
	Number *int     // number
	Date   *string  // date start
	Names  []string // multi_select tags; select uses Names[0]
}

func TitleValue(text string) PropertyValue {
	return PropertyValue{Type: PropertyTypeTitle, Text: text}
}

func RichTextValue(text string) PropertyValue {
	return PropertyValue{Type: PropertyTypeRichText, Text: text}
}

func NumberValue(n *int) PropertyValue {
	return PropertyValue{Type: PropertyTypeNumber, Number: n}
}

func DateValue(start *string) PropertyValue {
	return PropertyValue{Type: PropertyTypeDate, Date: start}
}

func MultiSelectValue(names []string) PropertyValue {
	tags := make([]string, len(names))
	copy(tags, names)
	return PropertyValue{Type: PropertyTypeMultiSelect, Names: tags}
}

func SelectValue(name string) PropertyValue {
	return PropertyValue{Type: PropertyTypeSelect, Names: []string{name}}
}

// IsEmpty reports whether the value carries nothing a reader would see.
func (v PropertyValue) IsEmpty() bool {
	switch v.Type {
	case PropertyTypeTitle, PropertyTypeRichText:
		return strings.TrimSpace(v.Text) == ""
	case PropertyTypeNumber:
		return v.Number == nil
	case PropertyTypeDate:
		return v.Date == nil
	case PropertyTypeMultiSelect:
		return len(v.Names) == 0
	case PropertyTypeSelect:
		return len(v.Names) == 0 || v.Names[0] == ""
	default:
		return true
	}
}

type selectOption struct {
	Name string `json:"name"`
}

type dateRange struct {
	Start string `json:"start"`
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case PropertyTypeTitle:
		return json.Marshal(map[string][]RichText{"title": {{Text: TextContent{Content: v.Text}}}})
	case PropertyTypeRichText:
		return json.Marshal(map[string][]RichText{"rich_text": {{Text: TextContent{Content: v.Text}}}})
	case PropertyTypeNumber:
		return json.Marshal(map[string]*int{"number": v.Number})
	case PropertyTypeDate:
		var date *dateRange
		if v.Date != nil {
			date = &dateRange{Start: *v.Date}
		}
		return json.Marshal(map[string]*dateRange{"date": date})
	case PropertyTypeMultiSelect:
		options := make([]selectOption, 0, len(v.Names))
		for _, name := range v.Names {
			options = append(options, selectOption{Name: name})
		}
		return json.Marshal(map[string][]selectOption{"multi_select": options})
	case PropertyTypeSelect:
		var option *selectOption
		if len(v.Names) > 0 {
			option = &selectOption{Name: v.Names[0]}
		}
		return json.Marshal(map[string]*selectOption{"select": option})
	default:
		return nil, fmt.Errorf("unknown property type %q", v.Type)
	}
}

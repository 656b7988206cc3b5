package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DatabaseSchema is the part of a Notion database object the mapper needs.
// Properties keeps the column names in the order the API returned them.
type DatabaseSchema struct {
	ID         string
	Properties []string
}

func (s *DatabaseSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string          `json:"id"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names, err := objectKeys(raw.Properties)
	if err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}

	s.ID = raw.ID
	s.Properties = names
	return nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(data json.RawMessage) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", tok)
		}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// PageRequest is the body of a create-page call.
type PageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
	Children   []Block                  `json:"children"`
	Cover      *Cover                   `json:"cover,omitempty"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
}

type Paragraph struct {
	RichText []RichText `json:"rich_text"`
}

type RichText struct {
	Type string      `json:"type,omitempty"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type Cover struct {
	Type     string       `json:"type"`
	External ExternalFile `json:"external"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

// PageResponse is the subset of the created page that callers use.
type PageResponse struct {
	ID             string          `json:"id"`
	URL            string          `json:"url,omitempty"`
	CreatedTime    time.Time       `json:"created_time"`
	LastEditedTime time.Time       `json:"last_edited_time"`
	Parent         Parent          `json:"parent"`
	Properties     json.RawMessage `json:"properties,omitempty"`
}

func paragraphBlock(text string) Block {
	return Block{
		Object: "block",
		Type:   "paragraph",
		Paragraph: &Paragraph{
			RichText: []RichText{{Type: "text", Text: TextContent{Content: text}}},
		},
	}
}

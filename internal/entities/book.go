package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Book is the canonical, source-agnostic record produced from a search result.
// Display fields always carry a usable default ("" or an empty slice) so
// consumers never have to branch on presence.
type Book struct {
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	Author        string    `json:"author"`
	Authors       []string  `json:"authors"`
	Category      string    `json:"category"`
	Categories    []string  `json:"categories"`
	Publisher     string    `json:"publisher"`
	PublishDate   string    `json:"publishDate"`
	TotalPage     PageCount `json:"totalPage"`
	CoverURL      string    `json:"coverUrl"`
	CoverSmallURL string    `json:"coverSmallUrl"`
	Description   string    `json:"description"`
	Link          string    `json:"link"`
	PreviewLink   string    `json:"previewLink"`
	ISBN10        string    `json:"isbn10,omitempty"`
	ISBN13        string    `json:"isbn13,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
}

// PageCount is a page total that sources report either as a number or as a
// numeric string. The zero value means the source did not report one.
type PageCount struct {
	number int
	text   string
	kind   pageCountKind
}

type pageCountKind uint8

const (
	pageCountAbsent pageCountKind = iota
	pageCountNumber
	pageCountText
)

func PageCountFromInt(n int) PageCount {
	return PageCount{number: n, kind: pageCountNumber}
}

func PageCountFromString(s string) PageCount {
	return PageCount{text: s, kind: pageCountText}
}

// IsZero reports whether no page count was provided.
func (p PageCount) IsZero() bool {
	return p.kind == pageCountAbsent
}

// Number returns the value when the page count was provided as a number.
func (p PageCount) Number() (int, bool) {
	return p.number, p.kind == pageCountNumber
}

// Text returns the raw value when the page count was provided as a string.
func (p PageCount) Text() (string, bool) {
	return p.text, p.kind == pageCountText
}

func (p PageCount) String() string {
	switch p.kind {
	case pageCountNumber:
		return strconv.Itoa(p.number)
	case pageCountText:
		return p.text
	default:
		return ""
	}
}

// MarshalJSON writes numbers as numbers and everything else as a string, so an
// absent count serializes as "".
func (p PageCount) MarshalJSON() ([]byte, error) {
	if p.kind == pageCountNumber {
		return []byte(strconv.Itoa(p.number)), nil
	}
	return json.Marshal(p.text)
}

func (p *PageCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = PageCount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode page count: %w", err)
		}
		if s == "" {
			*p = PageCount{}
			return nil
		}
		*p = PageCountFromString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode page count: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = PageCountFromInt(int(i))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("decode page count: %w", err)
	}
	*p = PageCountFromInt(int(f))
	return nil
}

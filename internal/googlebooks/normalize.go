package googlebooks

import (
	"strings"

	"github.com/mrlokans/booknotion/internal/entities"
)

// edgeCurlMarker is the query fragment Google adds to thumbnails to render a
// page-curl effect.
const edgeCurlMarker = "&edge=curl"

// Normalizer converts raw volume entries into canonical books.
type Normalizer struct {
	enableCoverEdgeCurl bool
}

// NewNormalizer creates a Normalizer. When enableCoverEdgeCurl is false the
// page-curl marker is stripped from cover URLs.
func NewNormalizer(enableCoverEdgeCurl bool) *Normalizer {
	return &Normalizer{enableCoverEdgeCurl: enableCoverEdgeCurl}
}

// Normalize builds a Book from one volume entry. Missing strings become "",
// missing lists become empty slices and a missing page count stays absent.
func (n *Normalizer) Normalize(info VolumeInfo) entities.Book {
	book := entities.Book{
		Title:       info.Title,
		Subtitle:    info.Subtitle,
		Author:      formatList(info.Authors),
		Authors:     copyList(info.Authors),
		Category:    formatList(info.Categories),
		Categories:  copyList(info.Categories),
		Publisher:   info.Publisher,
		PublishDate: info.PublishedDate,
		Description: info.Description,
		Link:        info.CanonicalVolumeLink,
		PreviewLink: info.PreviewLink,
	}

	if book.Link == "" {
		book.Link = info.InfoLink
	}

	if info.PageCount != nil {
		book.TotalPage = entities.PageCountFromInt(*info.PageCount)
	}

	if info.ImageLinks != nil {
		book.CoverURL = n.coverURL(info.ImageLinks.Thumbnail)
		book.CoverSmallURL = n.coverURL(info.ImageLinks.SmallThumbnail)
	}

	book.ISBN10, book.ISBN13 = extractISBNs(info.IndustryIdentifiers)

	return book
}

// NormalizeAll converts every entry, preserving order.
func (n *Normalizer) NormalizeAll(infos []VolumeInfo) []entities.Book {
	books := make([]entities.Book, 0, len(infos))
	for _, info := range infos {
		books = append(books, n.Normalize(info))
	}
	return books
}

func (n *Normalizer) coverURL(url string) string {
	if n.enableCoverEdgeCurl {
		return url
	}
	return strings.Replace(url, edgeCurlMarker, "", 1)
}

// formatList joins a multi-element list with ", " after trimming each element.
// A single element is returned verbatim.
func formatList(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}

	trimmed := make([]string, len(list))
	for i, item := range list {
		trimmed[i] = strings.TrimSpace(item)
	}
	return strings.Join(trimmed, ", ")
}

func copyList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// extractISBNs classifies identifiers as ISBN-10 when typed "ISBN_10" and as
// ISBN-13 otherwise, so ISSN and OTHER identifiers land in the ISBN-13 slot.
// Later identifiers overwrite earlier ones of the same class.
// TODO: decide whether non-ISBN identifiers should be skipped instead of
// overwriting a real ISBN-13.
func extractISBNs(identifiers []IndustryIdentifier) (isbn10, isbn13 string) {
	for _, id := range identifiers {
		value := strings.TrimSpace(id.Identifier)
		if id.Type == "ISBN_10" {
			isbn10 = value
		} else {
			isbn13 = value
		}
	}
	return isbn10, isbn13
}

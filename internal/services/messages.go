package services

import (
	"fmt"
	"strings"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/notion"
)

const descriptionPreviewLength = 200

// ConfirmationMessage describes the book that is about to be added.
func ConfirmationMessage(book entities.Book) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Would you like to add %q by %s to your Notion database?\n", book.Title, strings.Join(book.Authors, ", "))
	fmt.Fprintf(&b, "Published: %s\n", orUnknown(book.PublishDate))
	fmt.Fprintf(&b, "Publisher: %s\n", orUnknown(book.Publisher))
	fmt.Fprintf(&b, "ISBN: %s", orUnknown(firstNonEmpty(book.ISBN13, book.ISBN10)))

	if book.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s...", preview(book.Description, descriptionPreviewLength))
	}

	return b.String()
}

// AddedMessage reports a successful add followed by the ID/Added/Skipped summary.
func AddedMessage(book entities.Book, result *notion.AddBookResult) string {
	return fmt.Sprintf("Successfully added %q by %s to your Notion database!\n%s",
		book.Title, strings.Join(book.Authors, ", "), notion.BuildSuccessMessage(result))
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package utils

import (
	"strings"
)

const (
	// DefaultChunkLength is the longest text a single Notion rich_text block accepts.
	DefaultChunkLength = 2000

	// EmptyTextPlaceholder replaces empty or blank text so callers always get one chunk.
	EmptyTextPlaceholder = "No description available."
)

// SplitText splits text into chunks of at most maxLength characters.
// Breaks prefer the end of a sentence, then a word boundary, as long as the
// break keeps at least half of maxLength in the chunk; otherwise the text is
// cut at exactly maxLength. Lengths are counted in runes.
func SplitText(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkLength
	}

	if strings.TrimSpace(text) == "" {
		return []string{EmptyTextPlaceholder}
	}

	remaining := []rune(text)
	if len(remaining) <= maxLength {
		return []string{text}
	}

	var chunks []string
	for len(remaining) > 0 {
		if len(remaining) <= maxLength {
			chunks = append(chunks, string(remaining))
			break
		}

		cut := findBreak(remaining, maxLength)

		if chunk := strings.TrimSpace(string(remaining[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = []rune(strings.TrimSpace(string(remaining[cut:])))
	}

	return chunks
}

// findBreak returns the exclusive end of the next chunk.
func findBreak(text []rune, maxLength int) int {
	minBreak := float64(maxLength) * 0.5

	// ". " must start before maxLength so the period stays inside the chunk.
	for i := maxLength - 1; i >= 0; i-- {
		if text[i] == '.' && text[i+1] == ' ' {
			if float64(i) >= minBreak {
				return i + 1
			}
			break
		}
	}

	// The space itself is dropped by trimming, so it may sit at maxLength.
	for i := maxLength; i >= 0; i-- {
		if text[i] == ' ' {
			if float64(i) >= minBreak {
				return i
			}
			break
		}
	}

	return maxLength
}

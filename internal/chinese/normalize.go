package chinese

import (
	"strings"
)

// NormalizeText normalizes text by trimming whitespace and removing extra spaces
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTextArray normalizes an array of text strings, dropping empty entries.
// A nil or all-empty input yields nil.
func NormalizeTextArray(texts []string) []string {
	var result []string
	for _, text := range texts {
		normalized := NormalizeText(text)
		if normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizePointer normalizes a pointer to string
func NormalizePointer(text *string) *string {
	if text == nil {
		return nil
	}
	normalized := NormalizeText(*text)
	if normalized == "" {
		return nil
	}
	return &normalized
}

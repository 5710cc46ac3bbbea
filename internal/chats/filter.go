package chats

import (
	"strings"

	"shelf-cli/internal/model"
)

// FieldFn extracts one searchable text field from a chat.
type FieldFn func(model.ChatItem) string

func DescriptionField(c model.ChatItem) string { return c.Description }

func URLIDField(c model.ChatItem) string { return c.URLID }

// Filter returns the subsequence of items for which at least one field
// contains query as a case-insensitive substring. An empty (or
// whitespace-only) query returns the input unchanged. The input slice is
// never mutated.
func Filter(items []model.ChatItem, query string, fields ...FieldFn) []model.ChatItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	if len(fields) == 0 {
		fields = []FieldFn{DescriptionField}
	}
	out := make([]model.ChatItem, 0, len(items))
	for _, it := range items {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(it)), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

package naming

import (
	"strconv"
	"strings"

	"focuspoint-editor/internal/editor/models"
)

const DefaultPrefix = "Focus Point "

// Resolve derives the display label of the area at index. Fields flagged
// useAsName are joined in schema order; empty ones are skipped.
func Resolve(schema models.Schema, area models.FocusArea, index int) string {
	var names []string
	for _, f := range schema {
		if !f.Config.UseAsName {
			continue
		}
		v, ok := area.Fields[f.Name]
		if !ok || v == nil || *v == "" {
			continue
		}
		names = append(names, *v)
	}
	if len(names) == 0 {
		return Default(index)
	}
	return strings.Join(names, ", ")
}

// Default is the ordinal fallback label, 1-based.
func Default(index int) string {
	return DefaultPrefix + strconv.Itoa(index+1)
}

package validate

import (
	"sort"
	"strings"
)

// FieldsError carries one translated message per invalid field, keyed by its json or query name.
type FieldsError struct {
	Fields map[string]string
}

func NewFieldsError(fields map[string]string) *FieldsError {
	return &FieldsError{Fields: fields}
}

func (f *FieldsError) Error() string {
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, f.Fields[name])
	}
	return "invalid fields: " + strings.Join(msgs, "; ")
}

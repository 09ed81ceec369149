package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/queryweave/queryweave/engine/workflow"
)

// ErrUnknownColumn reports a tool referencing a column that is not present
// in its input schema.
var ErrUnknownColumn = errors.New("unknown column")

// FieldType is the type tag of one column.
type FieldType string

const (
	TypeString    FieldType = "STRING"
	TypeFloat     FieldType = "FLOAT"
	TypeInteger   FieldType = "INTEGER"
	TypeBoolean   FieldType = "BOOLEAN"
	TypeDate      FieldType = "DATE"
	TypeTimestamp FieldType = "TIMESTAMP"
)

// ParseFieldType normalizes a type tag from configuration.
func ParseFieldType(s string) (FieldType, error) {
	switch t := FieldType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeString, TypeFloat, TypeInteger, TypeBoolean, TypeDate, TypeTimestamp:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported field type %q", s)
	}
}

// Column is one named, typed output column.
type Column struct {
	Name string
	Type FieldType
}

// Schema is the ordered set of columns visible at one point of the pipeline.
// Column order is significant: it drives the column lists emitted into the
// compiled query.
type Schema []Column

// TypeOf returns the type of the named column.
func (s Schema) TypeOf(name string) (FieldType, bool) {
	for _, col := range s {
		if col.Name == name {
			return col.Type, true
		}
	}
	return "", false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

// JSON serializes the schema as a column-ordered JSON object, the form
// embedded into translation prompts.
func (s Schema) JSON() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", col.Name, string(col.Type))
	}
	b.WriteByte('}')
	return b.String()
}

// Apply computes the output schema of running one tool against the input
// schema. It is a pure function: the input schema is never mutated.
func Apply(s Schema, tool workflow.Tool) (Schema, error) {
	switch tool.Kind {
	case workflow.KindSelect:
		out := make(Schema, 0, len(tool.Fields))
		for _, field := range tool.Fields {
			if !field.Selected {
				continue
			}
			fieldType, ok := s.TypeOf(field.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q referenced by tool %d", ErrUnknownColumn, field.Name, tool.ID)
			}
			out = append(out, Column{Name: field.OutputName(), Type: fieldType})
		}
		return out, nil
	case workflow.KindFilter:
		// Filters narrow rows, never columns.
		return s.Clone(), nil
	default:
		return nil, fmt.Errorf("unsupported tool kind %q", tool.Kind)
	}
}

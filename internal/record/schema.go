// Package record turns device samples into named, schema-ordered records.
//
// A Schema is derived exactly once per capture session from the device's
// capabilities and is carried immutably with the session. Every Record built
// by a Builder shares that Schema, so column order and column count are fixed
// for the whole session even if the device later reports something else.
package record

import (
	"fmt"
	"strings"
)

// Kind classifies the scalar held by a field.
type Kind int

const (
	// KindFloat is a continuous value (timestamp, axis position).
	KindFloat Kind = iota
	// KindFlag is a 0|1 integer flag (button, D-pad direction).
	KindFlag
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Field names for the fixed parts of a schema.
const (
	FieldTimestamp = "timestamp"
	FieldDpadUp    = "dpad_up"
	FieldDpadDown  = "dpad_down"
	FieldDpadLeft  = "dpad_left"
	FieldDpadRight = "dpad_right"
)

// DpadFields lists the synthetic hat fields in their fixed order.
var DpadFields = []string{FieldDpadUp, FieldDpadDown, FieldDpadLeft, FieldDpadRight}

// Field describes one column of a Schema.
type Field struct {
	Name string
	Kind Kind
}

// Capabilities describe what a device exposes.
type Capabilities struct {
	Axes    int
	Buttons int
	HasHat  bool
}

// Schema is the ordered field layout of every record in a session.
// The zero value is an empty schema; build one with NewSchema.
type Schema struct {
	fields []Field
	index  map[string]int
	caps   Capabilities
}

// NewSchema derives the field layout for the given capabilities:
//
//	timestamp, axis0..axisN-1, button0..buttonM-1[, dpad_up, dpad_down, dpad_left, dpad_right]
func NewSchema(caps Capabilities) *Schema {
	if caps.Axes < 0 {
		caps.Axes = 0
	}
	if caps.Buttons < 0 {
		caps.Buttons = 0
	}

	fields := make([]Field, 0, 1+caps.Axes+caps.Buttons+len(DpadFields))
	fields = append(fields, Field{Name: FieldTimestamp, Kind: KindFloat})
	for i := 0; i < caps.Axes; i++ {
		fields = append(fields, Field{Name: fmt.Sprintf("axis%d", i), Kind: KindFloat})
	}
	for i := 0; i < caps.Buttons; i++ {
		fields = append(fields, Field{Name: fmt.Sprintf("button%d", i), Kind: KindFlag})
	}
	if caps.HasHat {
		for _, name := range DpadFields {
			fields = append(fields, Field{Name: name, Kind: KindFlag})
		}
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	return &Schema{fields: fields, index: index, caps: caps}
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the ordered fields.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the ordered field names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the i-th field.
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Index returns the position of name, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Capabilities returns the capabilities the schema was derived from.
func (s *Schema) Capabilities() Capabilities {
	return s.caps
}

// ButtonCount returns the number of flag fields, including D-pad fields.
// This is the length of Sample.Buttons a device must produce.
func (s *Schema) ButtonCount() int {
	n := s.caps.Buttons
	if s.caps.HasHat {
		n += len(DpadFields)
	}
	return n
}

// String renders the schema as a comma-separated header.
func (s *Schema) String() string {
	return strings.Join(s.Names(), ",")
}

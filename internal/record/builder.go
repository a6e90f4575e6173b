package record

// Builder zips samples with a fixed Schema.
type Builder struct {
	schema *Schema
	axes   int
	flags  int
}

// NewBuilder returns a Builder bound to schema.
func NewBuilder(schema *Schema) *Builder {
	caps := schema.Capabilities()
	return &Builder{
		schema: schema,
		axes:   caps.Axes,
		flags:  schema.ButtonCount(),
	}
}

// Schema returns the builder's schema.
func (b *Builder) Schema() *Schema {
	return b.schema
}

// Build flattens s into a Record laid out as [timestamp] + axes + buttons.
//
// The record always has exactly Schema.Len() values. If the device reports
// more axes or buttons than the schema was derived from, the extras are
// dropped; if it reports fewer, the missing values are zero. Button values
// other than 0 are stored as 1.
func (b *Builder) Build(s Sample) Record {
	values := make([]float64, b.schema.Len())
	values[0] = s.Timestamp

	for i := 0; i < b.axes && i < len(s.Axes); i++ {
		values[1+i] = s.Axes[i]
	}

	base := 1 + b.axes
	for i := 0; i < b.flags && i < len(s.Buttons); i++ {
		if s.Buttons[i] != 0 {
			values[base+i] = 1
		}
	}

	return Record{schema: b.schema, values: values}
}

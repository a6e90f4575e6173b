package record

import "time"

// Sample is one timestamped snapshot of device state.
//
// Timestamp is wall-clock seconds since the Unix epoch. Axes are in [-1, 1].
// Buttons hold 0 or 1, with the four D-pad flags (up, down, left, right)
// appended when the device has a hat.
type Sample struct {
	Timestamp float64
	Axes      []float64
	Buttons   []int
}

// Timestamp converts t to the float seconds stored in a Sample.
func Timestamp(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// Clone returns a deep copy of the sample.
func (s Sample) Clone() Sample {
	out := Sample{Timestamp: s.Timestamp}
	out.Axes = append([]float64(nil), s.Axes...)
	out.Buttons = append([]int(nil), s.Buttons...)
	return out
}

// Record is a Sample flattened against a Schema. Values are stored in
// schema order; flag values are stored as 0 or 1.
type Record struct {
	schema *Schema
	values []float64
}

// Schema returns the schema the record conforms to.
func (r Record) Schema() *Schema {
	return r.schema
}

// Len returns the number of values.
func (r Record) Len() int {
	return len(r.values)
}

// Value returns the i-th value in schema order.
func (r Record) Value(i int) float64 {
	return r.values[i]
}

// Get returns the value of the named field.
func (r Record) Get(name string) (float64, bool) {
	i := r.schema.Index(name)
	if i < 0 || i >= len(r.values) {
		return 0, false
	}
	return r.values[i], true
}

// Values returns a copy of the values in schema order.
func (r Record) Values() []float64 {
	return append([]float64(nil), r.values...)
}

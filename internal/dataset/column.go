package dataset

import (
	"fmt"
	"math"
	"sort"
)

// Column is a named, homogeneously typed sequence of values. A nil entry is null.
type Column struct {
	Name   string
	Kind   Kind
	values []any
}

// ValueCount pairs a distinct value with its number of occurrences.
type ValueCount struct {
	Value any
	Count int
}

// NewColumn builds a column, converting values to the storage type of kind.
func NewColumn(name string, kind Kind, values []any) (*Column, error) {
	out := make([]any, len(values))
	for i, v := range values {
		cv, ok := coerce(kind, v)
		if !ok {
			return nil, &Error{Op: "new_column", Column: name, Message: fmt.Sprintf("row %d: %T is not %s", i, v, kind), Cause: ErrKindMismatch}
		}
		out[i] = cv
	}
	return &Column{Name: name, Kind: kind, values: out}, nil
}

// TextColumn builds a text column without nulls.
func TextColumn(name string, values ...string) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &Column{Name: name, Kind: Text, values: out}
}

// FloatColumn builds a float column; NaN entries become null.
func FloatColumn(name string, values ...float64) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return &Column{Name: name, Kind: Float, values: out}
}

// IntColumn builds an integer column without nulls.
func IntColumn(name string, values ...int64) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &Column{Name: name, Kind: Int, values: out}
}

func (c *Column) Len() int { return len(c.values) }

// Value returns the stored value at row i (nil when null).
func (c *Column) Value(i int) any { return c.values[i] }

func (c *Column) IsNull(i int) bool { return c.values[i] == nil }

func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v == nil {
			n++
		}
	}
	return n
}

func (c *Column) NonNullCount() int { return len(c.values) - c.NullCount() }

// Float returns the numeric value at row i. ok is false for nulls and non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Kind.Numeric() {
		return 0, false
	}
	return toFloat(c.values[i])
}

// Floats returns the column as float64 with NaN for nulls. Non-numeric columns yield an error.
func (c *Column) Floats() ([]float64, error) {
	if !c.Kind.Numeric() {
		return nil, NewNotNumericError("floats", c.Name, c.Kind)
	}
	out := make([]float64, len(c.values))
	for i := range c.values {
		if f, ok := toFloat(c.values[i]); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// String formats the value at row i.
func (c *Column) String(i int) string { return Format(c.values[i]) }

// Strings formats every value; nulls become "".
func (c *Column) Strings() []string {
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = Format(v)
	}
	return out
}

// Set stores v at row i. A value of another kind promotes the column the way an object column
// would absorb it: int to float for floats, anything else to text.
func (c *Column) Set(i int, v any) {
	if cv, ok := coerce(c.Kind, v); ok {
		c.values[i] = cv
		return
	}
	k, _ := kindOf(v)
	if c.Kind == Int && k == Float {
		c.promote(Float)
	} else {
		c.promote(Text)
	}
	cv, ok := coerce(c.Kind, v)
	if !ok {
		cv = Format(v)
	}
	c.values[i] = cv
}

func (c *Column) promote(kind Kind) {
	for i, v := range c.values {
		if v == nil {
			continue
		}
		if kind == Float {
			c.values[i], _ = toFloat(v)
		} else {
			c.values[i] = Format(v)
		}
	}
	c.Kind = kind
}

// MapText rewrites every non-null value of a text column.
func (c *Column) MapText(fn func(string) string) error {
	if c.Kind != Text {
		return NewNotTextError("map_text", c.Name, c.Kind)
	}
	for i, v := range c.values {
		if s, ok := v.(string); ok {
			c.values[i] = fn(s)
		}
	}
	return nil
}

// Unique lists distinct non-null values in order of first appearance.
func (c *Column) Unique() []any {
	var out []any
	seen := make(map[any]struct{})
	for _, v := range c.values {
		if v == nil {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ValueCounts counts distinct non-null values, most frequent first.
// Ties keep the order of first appearance.
func (c *Column) ValueCounts() []ValueCount {
	index := make(map[any]int)
	var out []ValueCount
	for _, v := range c.values {
		if v == nil {
			continue
		}
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	vals := make([]any, len(c.values))
	copy(vals, c.values)
	return &Column{Name: c.Name, Kind: c.Kind, values: vals}
}

func (c *Column) pick(idx []int) {
	vals := make([]any, len(idx))
	for i, j := range idx {
		vals[i] = c.values[j]
	}
	c.values = vals
}
